package sales

import (
	"sort"
	"strings"

	"github.com/cruisedesk/sales-service/model"
)

// DeckNumbers derives the deck list from loaded cabins: the distinct deck
// numbers, ascending.
func DeckNumbers(cabins []model.Cabin) []int {
	seen := make(map[int]bool)
	var decks []int
	for _, c := range cabins {
		if !seen[c.Deck] {
			seen[c.Deck] = true
			decks = append(decks, c.Deck)
		}
	}
	sort.Ints(decks)
	return decks
}

// CabinsOnDeck returns the cabins of one deck ordered by cabin number using
// numeric-aware comparison, so "A9" sorts before "A10".
func CabinsOnDeck(cabins []model.Cabin, deck int) []model.Cabin {
	var out []model.Cabin
	for _, c := range cabins {
		if c.Deck == deck {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compareNatural(out[i].CabinNo, out[j].CabinNo) < 0
	})
	return out
}

const (
	ReasonUnavailable = "unavailable"
	ReasonInCart      = "in_cart"
)

// SelectableReason reports whether a cabin can be picked for a new cart item
// and, when it cannot, why. The unavailable set comes from the backend; the
// in-cart check is the client-side advisory exclusion.
func SelectableReason(cabin model.Cabin, unavailable map[string]bool, session *model.SalesSession) (bool, string) {
	if unavailable[cabin.ID] {
		return false, ReasonUnavailable
	}
	if session.CabinInCart(cabin.ID) {
		return false, ReasonInCart
	}
	return true, ""
}

// UnavailableSet turns the context's unavailable id list into a lookup set.
func UnavailableSet(ctx *model.SailingContext) map[string]bool {
	set := make(map[string]bool, len(ctx.UnavailableIDs))
	for _, id := range ctx.UnavailableIDs {
		set[id] = true
	}
	return set
}

// compareNatural compares strings segment by segment, treating digit runs as
// numbers. Returns -1, 0, or 1.
func compareNatural(a, b string) int {
	for a != "" && b != "" {
		aDigit := isDigit(a[0])
		bDigit := isDigit(b[0])

		switch {
		case aDigit && bDigit:
			aNum, aRest := splitDigits(a)
			bNum, bRest := splitDigits(b)
			// Compare digit runs numerically: shorter trimmed run is smaller,
			// equal-length runs compare lexically.
			at := strings.TrimLeft(aNum, "0")
			bt := strings.TrimLeft(bNum, "0")
			if len(at) != len(bt) {
				if len(at) < len(bt) {
					return -1
				}
				return 1
			}
			if at != bt {
				if at < bt {
					return -1
				}
				return 1
			}
			a, b = aRest, bRest
		case aDigit:
			return -1 // digits sort before letters
		case bDigit:
			return 1
		default:
			if a[0] != b[0] {
				if a[0] < b[0] {
					return -1
				}
				return 1
			}
			a, b = a[1:], b[1:]
		}
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
