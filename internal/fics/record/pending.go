package record

import "github.com/park285/cheese-fics/internal/fics/grammar"

// OfferKind is the subject of a pending offer.
type OfferKind string

const (
	OfferDraw     OfferKind = "draw"
	OfferAbort    OfferKind = "abort"
	OfferAdjourn  OfferKind = "adjourn"
	OfferTakeback OfferKind = "takeback"
	OfferMatch    OfferKind = "match"
)

// PendingOffer is one line of the "pending" listing.
type PendingOffer struct {
	Number    int       `json:"number"`
	Handle    string    `json:"handle"`
	Kind      OfferKind `json:"kind"`
	HalfMoves int       `json:"half_moves,omitempty"`
	Rated     bool      `json:"rated,omitempty"`
	Type      string    `json:"type,omitempty"`
	Time      int       `json:"time,omitempty"`
	Increment int       `json:"increment,omitempty"`
}

// PendingInfo lists offers made by and to the local user.
type PendingInfo struct {
	To   []PendingOffer `json:"to"`
	From []PendingOffer `json:"from"`
}

// PendingFromGroups builds the listing from the two offer blocks of a
// "pending" reply; either block may be empty.
func PendingFromGroups(to, from string) PendingInfo {
	return PendingInfo{
		To:   parseOffers(grammar.PendingOfferTo.FindAllStringSubmatch(to, -1)),
		From: parseOffers(grammar.PendingOfferFrom.FindAllStringSubmatch(from, -1)),
	}
}

func parseOffers(matches [][]string) []PendingOffer {
	out := make([]PendingOffer, 0, len(matches))
	for _, g := range matches {
		o := PendingOffer{Number: atoi(g[1]), Handle: g[2]}
		switch {
		case g[3] != "":
			o.Kind = OfferDraw
		case g[4] != "":
			o.Kind = OfferKind(g[4])
		case g[5] != "":
			o.Kind = OfferTakeback
			o.HalfMoves = atoi(g[5])
		default:
			o.Kind = OfferMatch
			o.Rated = g[6] == "rated"
			o.Type = g[7]
			o.Time = atoi(g[8])
			o.Increment = atoi(g[9])
		}
		out = append(out, o)
	}
	return out
}
