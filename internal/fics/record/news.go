package record

import (
	"strings"

	"github.com/park285/cheese-fics/internal/fics/grammar"
)

// NewsItem is a news index line or a full news article.
type NewsItem struct {
	Number int    `json:"number"`
	Date   string `json:"date"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	Poster string `json:"poster,omitempty"`
}

// NewsItemsFrom collects every index line in text.
func NewsItemsFrom(text string) []NewsItem {
	matches := grammar.NewsItem.FindAllStringSubmatch(text, -1)
	out := make([]NewsItem, 0, len(matches))
	for _, g := range matches {
		out = append(out, NewsItem{Number: atoi(g[1]), Date: g[2], Title: g[3]})
	}
	return out
}

// NewsDetailsFromGroups builds an article from number, date, title, body and
// poster groups. Server continuation lines in the body are joined with '\n'.
func NewsDetailsFromGroups(g []string) NewsItem {
	if len(g) < 6 {
		return NewsItem{}
	}
	return NewsItem{
		Number: atoi(g[1]),
		Date:   g[2],
		Title:  g[3],
		Body:   grammar.NewsDetailsSeparator.ReplaceAllString(g[4], "\n"),
		Poster: g[5],
	}
}

// ReceivedMessage is one stored message.
type ReceivedMessage struct {
	Number int    `json:"number"`
	Sender string `json:"sender"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

// MessagesFrom returns the messages in text, newest first.
func MessagesFrom(text string) []ReceivedMessage {
	matches := grammar.MessageItem.FindAllStringSubmatch(text, -1)
	out := make([]ReceivedMessage, len(matches))
	for i, g := range matches {
		out[len(matches)-1-i] = ReceivedMessage{
			Number: atoi(g[1]),
			Sender: g[2],
			Date:   g[3],
			Text:   g[4],
		}
	}
	return out
}

// WelcomeData summarises the login banner.
type WelcomeData struct {
	News            []NewsItem `json:"news,omitempty"`
	AdminNews       []NewsItem `json:"admin_news,omitempty"`
	UnreadMessages  int        `json:"unread_messages"`
	AllMessages     int        `json:"all_messages"`
	MaxMessages     int        `json:"max_messages,omitempty"`
	Friends         []string   `json:"friends,omitempty"`
	NotedBy         []string   `json:"noted_by,omitempty"`
	Adjourned       int        `json:"adjourned,omitempty"`
	AdjournedOnline []string   `json:"adjourned_online,omitempty"`
}

// WelcomeFromMatch reads the named groups of grammar.MotdExtended.
func WelcomeFromMatch(g []string) *WelcomeData {
	re := grammar.MotdExtended
	group := func(name string) string {
		if i := re.SubexpIndex(name); i > 0 && i < len(g) {
			return g[i]
		}
		return ""
	}
	w := &WelcomeData{
		UnreadMessages:  atoi(group("unread")),
		AllMessages:     atoi(group("all")),
		MaxMessages:     atoi(group("max")),
		Friends:         strings.Fields(group("present")),
		NotedBy:         strings.Fields(group("noted")),
		Adjourned:       atoi(group("adjourned")),
		AdjournedOnline: strings.Fields(group("adjournedOnline")),
	}
	if news := group("news"); news != "" {
		w.News = NewsItemsFrom(news)
	}
	if anews := group("anews"); anews != "" {
		w.AdminNews = NewsItemsFrom(anews)
	}
	return w
}
