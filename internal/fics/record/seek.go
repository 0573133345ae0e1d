package record

import (
	"strconv"
	"strings"
)

// Titles is the hex bitfield the server sends with seeks and who listings.
type Titles uint16

const (
	TitleUnregistered Titles = 0x01
	TitleComputer     Titles = 0x02
	TitleGM           Titles = 0x04
	TitleIM           Titles = 0x08
	TitleFM           Titles = 0x10
	TitleWGM          Titles = 0x20
	TitleWIM          Titles = 0x40
	TitleWFM          Titles = 0x80
)

// ParseTitles decodes a hex title field; malformed input yields zero.
func ParseTitles(hex string) Titles {
	n, err := strconv.ParseUint(strings.TrimSpace(hex), 16, 16)
	if err != nil {
		return 0
	}
	return Titles(n)
}

// IsGuest reports whether the unregistered bit is set.
func (t Titles) IsGuest() bool { return t&TitleUnregistered == TitleUnregistered }

// ExcludedSeekType is the variant never surfaced from the seek feed.
const ExcludedSeekType = "crazyhouse"

// SeekOp tells how a SeekInfoList applies to the seek table.
type SeekOp string

const (
	SeekSet    SeekOp = "set"
	SeekAdd    SeekOp = "add"
	SeekRemove SeekOp = "remove"
)

// SeekInfo is one entry of the seek graph.
type SeekInfo struct {
	ID          int    `json:"id"`
	Handle      string `json:"handle,omitempty"`
	Titles      Titles `json:"titles,omitempty"`
	Rating      int    `json:"rating,omitempty"`
	Provisional string `json:"provisional,omitempty"`
	Time        int    `json:"time,omitempty"`
	Increment   int    `json:"increment,omitempty"`
	Rated       bool   `json:"rated,omitempty"`
	Type        string `json:"type,omitempty"`
	Color       string `json:"color,omitempty"`
	RatingMin   int    `json:"rating_min,omitempty"`
	RatingMax   int    `json:"rating_max,omitempty"`
	Automatic   bool   `json:"automatic,omitempty"`
	Formula     bool   `json:"formula,omitempty"`
}

// SeekFromGroups builds a seek from a <s> submatch. g[0] is the whole match.
func SeekFromGroups(g []string) SeekInfo {
	if len(g) < 15 {
		return SeekInfo{}
	}
	return SeekInfo{
		ID:          atoi(g[1]),
		Handle:      g[2],
		Titles:      ParseTitles(g[3]),
		Rating:      atoi(g[4]),
		Provisional: strings.TrimSpace(g[5]),
		Time:        atoi(g[6]),
		Increment:   atoi(g[7]),
		Rated:       g[8] == "r",
		Type:        g[9],
		Color:       g[10],
		RatingMin:   atoi(g[11]),
		RatingMax:   atoi(g[12]),
		Automatic:   g[13] == "t",
		Formula:     g[14] == "t",
	}
}

// Excluded reports whether the seek belongs to the filtered variant.
func (s SeekInfo) Excluded() bool { return s.Type == ExcludedSeekType }

// SeekInfoList is a batch applied to the seek table.
type SeekInfoList struct {
	Op    SeekOp     `json:"op"`
	Seeks []SeekInfo `json:"seeks"`
}

// IDs returns the seek ids of the batch in order.
func (l SeekInfoList) IDs() []int {
	out := make([]int, 0, len(l.Seeks))
	for _, s := range l.Seeks {
		out = append(out, s.ID)
	}
	return out
}

// RemovedSeeks parses a space separated <sr> id list. Tokens that are not
// numbers are skipped.
func RemovedSeeks(ids string) SeekInfoList {
	list := SeekInfoList{Op: SeekRemove}
	for _, f := range strings.Fields(ids) {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		list.Seeks = append(list.Seeks, SeekInfo{ID: n})
	}
	return list
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
