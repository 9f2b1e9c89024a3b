package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolution_FieldsRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		res  Resolution
	}{
		{
			"listed company",
			Resolution{
				Name:      "Johnson & Johnson",
				Tickers:   []string{"JNJ"},
				Exchanges: []string{"New York Stock Exchange"},
				Status:    StatusActive,
				QID:       "Q333718",
			},
		},
		{
			"dual listing",
			Resolution{
				Name:      "GSK",
				Tickers:   []string{"GSK", "GSK.L"},
				Exchanges: []string{"London Stock Exchange", "New York Stock Exchange"},
				Status:    StatusActive,
				QID:       "Q212322",
			},
		},
		{
			"private company",
			Resolution{
				Name:   "Boehringer Ingelheim",
				Status: StatusActive,
				QID:    "Q699532",
			},
		},
		{
			"dissolved",
			Resolution{
				Name:    "Wyeth",
				Tickers: []string{"WYE"},
				Status:  StatusInactive,
				QID:     "Q1432346",
			},
		},
		{
			"unresolved",
			Resolution{
				Name:   "UNKNOWN",
				Status: StatusUnresolved,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseFields(tc.res.Fields())
			assert.Equal(t, tc.res, got)
		})
	}
}

func TestResolution_FieldsSentinels(t *testing.T) {
	t.Parallel()

	fields := Resolution{Name: "Private Co", Status: StatusActive, QID: "Q1"}.Fields()
	assert.Equal(t, []string{"Private Co", "Private/Unlisted", "N/A", "Active", "Q1"}, fields)
}

func TestParseFields_ShortRow(t *testing.T) {
	t.Parallel()

	got := ParseFields([]string{"only", "two"})
	assert.Equal(t, StatusUnresolved, got.Status)
}

func TestParseFields_DropsEmptySetMembers(t *testing.T) {
	t.Parallel()

	got := ParseFields([]string{"X", "B; ; A;A", "N/A", "Active", "Q1"})
	assert.Equal(t, []string{"A", "B"}, got.Tickers)
	assert.Empty(t, got.Exchanges)
}

func TestResolution_Resolved(t *testing.T) {
	t.Parallel()

	assert.True(t, Resolution{Status: StatusActive}.Resolved())
	assert.True(t, Resolution{Status: StatusInactive}.Resolved())
	assert.False(t, Resolution{Status: StatusUnresolved}.Resolved())
}
