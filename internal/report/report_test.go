package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotech-analyzer/sponsor-cli/internal/extract"
	"github.com/biotech-analyzer/sponsor-cli/internal/resolve"
)

func parseCSV(t *testing.T, data string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSponsorCSV(t *testing.T) {
	rows := []SponsorRow{
		{
			Trial: extract.TrialSponsor{NCTID: "NCT0001", Name: "Janssen Research & Development, LLC"},
			Resolution: resolve.Resolution{
				Name:      "Johnson & Johnson",
				Tickers:   []string{"JNJ"},
				Exchanges: []string{"New York Stock Exchange"},
				Status:    resolve.StatusActive,
				QID:       "Q155954",
			},
		},
		{
			Trial:      extract.TrialSponsor{NCTID: "NCT0002", Name: "Mystery Biotech"},
			Resolution: resolve.Resolution{Name: "Mystery Biotech", Status: resolve.StatusUnresolved},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSponsorCSV(&buf, rows))

	records := parseCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"nct_id", "sponsor_name", "resolved_name", "ticker", "exchange", "status", "wikidata_id"}, records[0])
	assert.Equal(t, []string{"NCT0001", "Janssen Research & Development, LLC", "Johnson & Johnson", "JNJ", "New York Stock Exchange", "Active", "Q155954"}, records[1])
	assert.Equal(t, []string{"NCT0002", "Mystery Biotech", "Mystery Biotech", "Private/Unlisted", "N/A", "Unresolved", ""}, records[2])
}

func TestWriteProductCSV(t *testing.T) {
	rows := []ProductRow{
		{
			Product: extract.ProductRecord{
				BrandName:           "Acmezol",
				IngredientNames:     "ACMEZOLAMIDE; CAFFEINE",
				IngredientStrengths: "50MG; 10MG",
				RxCUI:               "100001",
				MarketingStatus:     "Prescription",
				DosageForm:          "TABLET",
			},
			Sponsor: "Acme Pharma",
			Resolution: resolve.Resolution{
				Name:      "Acme Holdings",
				Tickers:   []string{"ACME"},
				Exchanges: []string{"Nasdaq"},
				Status:    resolve.StatusActive,
				QID:       "Q12345",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProductCSV(&buf, rows))

	records := parseCSV(t, buf.String())
	require.Len(t, records, 2)
	assert.Equal(t, productColumns, records[0])
	assert.Equal(t, []string{
		"Acmezol", "ACMEZOLAMIDE; CAFFEINE", "50MG; 10MG", "100001",
		"Prescription", "TABLET", "Acme Pharma",
		"Acme Holdings", "ACME", "Nasdaq", "Active", "Q12345",
	}, records[1])
}

func TestWriteUnresolved(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUnresolved(&buf, []string{"Mystery Biotech", "Ghost Labs"}))

	records := parseCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"unresolved_sponsor_name"}, records[0])
	assert.Equal(t, []string{"Mystery Biotech"}, records[1])
	assert.Equal(t, []string{"Ghost Labs"}, records[2])
}

func TestWriteUnresolved_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUnresolved(&buf, nil))

	records := parseCSV(t, buf.String())
	require.Len(t, records, 1)
}
