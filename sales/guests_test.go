package sales

import (
	"testing"

	"github.com/cruisedesk/sales-service/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandGuestsOrdering(t *testing.T) {
	guests := ExpandGuests(model.GuestCounts{Adult: 2, Child: 1, Infant: 1})

	require.Len(t, guests, 4)
	assert.Equal(t, "adult", guests[0].Paxtype)
	assert.Equal(t, "adult", guests[1].Paxtype)
	assert.Equal(t, "child", guests[2].Paxtype)
	assert.Equal(t, "infant", guests[3].Paxtype)
}

func TestGuestCountsRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		counts model.GuestCounts
	}{
		{name: "single adult", counts: model.GuestCounts{Adult: 1}},
		{name: "family", counts: model.GuestCounts{Adult: 2, Child: 2}},
		{name: "full mix", counts: model.GuestCounts{Adult: 3, Child: 2, Infant: 1}},
		{name: "children only", counts: model.GuestCounts{Child: 4}},
		{name: "empty", counts: model.GuestCounts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guests := ExpandGuests(tt.counts)
			assert.Len(t, guests, tt.counts.Total())
			assert.Equal(t, tt.counts, CountGuests(guests))
		})
	}
}

func TestValidateGuests(t *testing.T) {
	tests := []struct {
		name    string
		counts  model.GuestCounts
		wantErr bool
	}{
		{name: "one adult", counts: model.GuestCounts{Adult: 1}, wantErr: false},
		{name: "no guests", counts: model.GuestCounts{}, wantErr: true},
		{name: "negative adults", counts: model.GuestCounts{Adult: -1, Child: 2}, wantErr: true},
		{name: "negative infants", counts: model.GuestCounts{Adult: 2, Infant: -3}, wantErr: true},
		{name: "infant only", counts: model.GuestCounts{Infant: 1}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGuests(tt.counts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
