package sales

import (
	"testing"

	"github.com/cruisedesk/sales-service/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckNumbers(t *testing.T) {
	cabins := []model.Cabin{
		{ID: "a", Deck: 9},
		{ID: "b", Deck: 7},
		{ID: "c", Deck: 9},
		{ID: "d", Deck: 5},
		{ID: "e", Deck: 7},
	}

	assert.Equal(t, []int{5, 7, 9}, DeckNumbers(cabins))
}

func TestCabinsOnDeckNaturalOrder(t *testing.T) {
	cabins := []model.Cabin{
		{ID: "a", Deck: 7, CabinNo: "A10"},
		{ID: "b", Deck: 7, CabinNo: "A9"},
		{ID: "c", Deck: 7, CabinNo: "A100"},
		{ID: "d", Deck: 8, CabinNo: "B1"},
		{ID: "e", Deck: 7, CabinNo: "A2"},
	}

	ordered := CabinsOnDeck(cabins, 7)
	require.Len(t, ordered, 4)

	var numbers []string
	for _, c := range ordered {
		numbers = append(numbers, c.CabinNo)
	}
	assert.Equal(t, []string{"A2", "A9", "A10", "A100"}, numbers)
}

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"7002", "7010", -1},
		{"7010", "7002", 1},
		{"7002", "7002", 0},
		{"A9", "A10", -1},
		{"A09", "A9", 0}, // leading zeros compare equal numerically
		{"B1", "A2", 1},
		{"12A", "12B", -1},
		{"12", "12A", -1},
		{"9", "B1", -1}, // digits sort before letters
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, compareNatural(tt.a, tt.b))
		})
	}
}

func TestSelectableReason(t *testing.T) {
	cabin := model.Cabin{ID: "cab-1", CabinNo: "7002"}
	session := &model.SalesSession{
		Cart: []model.CartItem{{ID: "tmp-1", CabinID: "cab-9"}},
	}

	ok, reason := SelectableReason(cabin, map[string]bool{}, session)
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = SelectableReason(cabin, map[string]bool{"cab-1": true}, session)
	assert.False(t, ok)
	assert.Equal(t, ReasonUnavailable, reason)

	session.Cart = append(session.Cart, model.CartItem{ID: "tmp-2", CabinID: "cab-1"})
	ok, reason = SelectableReason(cabin, map[string]bool{}, session)
	assert.False(t, ok)
	assert.Equal(t, ReasonInCart, reason)
}
