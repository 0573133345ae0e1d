package record

import "github.com/park285/cheese-fics/internal/fics/grammar"

var gameTypes = map[string]string{
	"b": "blitz",
	"s": "standard",
	"l": "lightning",
	"w": "wild",
	"B": "bughouse",
	"z": "crazyhouse",
	"S": "suicide",
	"L": "losers",
	"x": "atomic",
	"u": "untimed",
	"n": "nonstandard",
}

// GameTypeName expands the one-letter type code used in history, journal and
// stored-game listings.
func GameTypeName(code string) string {
	if name, ok := gameTypes[code]; ok {
		return name
	}
	return code
}

// VariablesInfo is a decoded "variables" reply.
type VariablesInfo struct {
	Handle    string   `json:"handle"`
	Interface string   `json:"interface,omitempty"`
	Notes     []string `json:"notes,omitempty"`
	Formula   string   `json:"formula,omitempty"`
}

// VariablesFromGroups reads handle (1), interface (2), f1-f9 (3-11) and
// formula (12).
func VariablesFromGroups(g []string) VariablesInfo {
	if len(g) < 13 {
		return VariablesInfo{}
	}
	info := VariablesInfo{Handle: g[1], Interface: g[2], Formula: g[12]}
	for _, f := range g[3:12] {
		if f == "" {
			break
		}
		info.Notes = append(info.Notes, f)
	}
	return info
}

// HistoryEntry is one line of a "history" listing.
type HistoryEntry struct {
	Index          int    `json:"index"`
	Result         string `json:"result"`
	Rating         int    `json:"rating"`
	Color          string `json:"color"`
	OpponentRating int    `json:"opponent_rating"`
	Opponent       string `json:"opponent"`
	Type           string `json:"type"`
	Rated          bool   `json:"rated"`
	Time           int    `json:"time"`
	Increment      int    `json:"increment"`
	ECO            string `json:"eco"`
	End            string `json:"end"`
	Date           string `json:"date"`
}

// HistoryInfo is a decoded "history" reply.
type HistoryInfo struct {
	Handle  string         `json:"handle"`
	Entries []HistoryEntry `json:"entries"`
}

// HistoryFromGroups parses the handle and entry block of a history reply.
func HistoryFromGroups(handle, block string) HistoryInfo {
	info := HistoryInfo{Handle: handle}
	for _, g := range grammar.HistoryEntry.FindAllStringSubmatch(block, -1) {
		info.Entries = append(info.Entries, HistoryEntry{
			Index:          atoi(g[1]),
			Result:         g[2],
			Rating:         atoi(g[3]),
			Color:          g[4],
			OpponentRating: atoi(g[5]),
			Opponent:       g[6],
			Type:           GameTypeName(g[7]),
			Rated:          g[8] == "r",
			Time:           atoi(g[9]),
			Increment:      atoi(g[10]),
			ECO:            g[11],
			End:            g[12],
			Date:           g[13],
		})
	}
	return info
}

// JournalEntry is one slot of a "journal" listing.
type JournalEntry struct {
	Slot        string `json:"slot"`
	White       string `json:"white"`
	WhiteRating int    `json:"white_rating"`
	Black       string `json:"black"`
	BlackRating int    `json:"black_rating"`
	Type        string `json:"type"`
	Rated       bool   `json:"rated"`
	Time        int    `json:"time"`
	Increment   int    `json:"increment"`
	ECO         string `json:"eco"`
	End         string `json:"end"`
	Result      string `json:"result"`
}

// JournalInfo is a decoded "journal" reply.
type JournalInfo struct {
	Handle  string         `json:"handle"`
	Entries []JournalEntry `json:"entries"`
}

func JournalFromGroups(handle, block string) JournalInfo {
	info := JournalInfo{Handle: handle}
	for _, g := range grammar.JournalEntry.FindAllStringSubmatch(block, -1) {
		info.Entries = append(info.Entries, JournalEntry{
			Slot:        g[1],
			White:       g[2],
			WhiteRating: atoi(g[3]),
			Black:       g[4],
			BlackRating: atoi(g[5]),
			Type:        GameTypeName(g[6]),
			Rated:       g[7] == "r",
			Time:        atoi(g[8]),
			Increment:   atoi(g[9]),
			ECO:         g[10],
			End:         g[11],
			Result:      g[12],
		})
	}
	return info
}

// AdjournedEntry is one stored game.
type AdjournedEntry struct {
	Color          string `json:"color"`
	Opponent       string `json:"opponent"`
	OpponentOnline bool   `json:"opponent_online"`
	Private        bool   `json:"private"`
	Type           string `json:"type"`
	Rated          bool   `json:"rated"`
	Time           int    `json:"time"`
	Increment      int    `json:"increment"`
	WhiteStrength  int    `json:"white_strength"`
	BlackStrength  int    `json:"black_strength"`
	Move           string `json:"move"`
	ECO            string `json:"eco"`
	Date           string `json:"date"`
}

// AdjournedInfo is a decoded "stored" reply.
type AdjournedInfo struct {
	Handle  string           `json:"handle"`
	Entries []AdjournedEntry `json:"entries"`
}

func AdjournedFromGroups(handle, block string) AdjournedInfo {
	info := AdjournedInfo{Handle: handle}
	for _, g := range grammar.AdjournedEntry.FindAllStringSubmatch(block, -1) {
		info.Entries = append(info.Entries, AdjournedEntry{
			Color:          g[1],
			Opponent:       g[2],
			OpponentOnline: g[3] == "Y",
			Private:        g[4] == "p",
			Type:           GameTypeName(g[5]),
			Rated:          g[6] == "r",
			Time:           atoi(g[7]),
			Increment:      atoi(g[8]),
			WhiteStrength:  atoi(g[9]),
			BlackStrength:  atoi(g[10]),
			Move:           g[11],
			ECO:            g[12],
			Date:           g[13],
		})
	}
	return info
}

// InchannelInfo lists the members of one channel.
type InchannelInfo struct {
	Channel string   `json:"channel"`
	Name    string   `json:"name,omitempty"`
	Users   []string `json:"users"`
}

func InchannelFromGroups(channel, name, users string) InchannelInfo {
	info := InchannelInfo{Channel: channel, Name: name}
	for _, g := range grammar.InchannelUser.FindAllStringSubmatch(users, -1) {
		info.Users = append(info.Users, g[1])
	}
	return info
}
