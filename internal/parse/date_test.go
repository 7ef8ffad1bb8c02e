package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
		ok   bool
	}{
		{
			name: "day month year with slashes",
			text: "Date: 15/06/2025",
			want: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "day month year with dashes",
			text: "issued 01-02-2024",
			want: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "iso style year first",
			text: "2025-06-15 14:03",
			want: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "month name",
			text: "Paid on 5 June 2025 by card",
			want: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "month name abbreviated with ordinal",
			text: "3rd Mar 2024",
			want: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "two digit year",
			text: "15/06/25",
			want: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "no date at all",
			text: "no date here",
			ok:   false,
		},
		{
			name: "month thirteen is rejected",
			text: "15/13/2025",
			ok:   false,
		},
		{
			name: "day thirty two is rejected",
			text: "32/01/2025",
			ok:   false,
		},
		{
			name: "invalid match skipped in favor of a later valid one",
			text: "ref 40/40/2025 printed 15/06/2025",
			want: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "thirty first of february rejected",
			text: "31/02/2025",
			ok:   false,
		},
		{
			name: "empty text",
			text: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDate_FourDigitYearWinsOverTwoDigit(t *testing.T) {
	// A two-digit-year pattern must not nibble at a four-digit year.
	got, ok := Date("receipt 15/06/2025")
	assert.True(t, ok)
	assert.Equal(t, 2025, got.Year())
}
