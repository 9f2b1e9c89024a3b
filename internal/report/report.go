// Package report renders resolution results as CSV files and plain-text
// unresolved lists.
package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/biotech-analyzer/sponsor-cli/internal/extract"
	"github.com/biotech-analyzer/sponsor-cli/internal/resolve"
)

// sponsorColumns defines the ordered trial sponsor output columns.
var sponsorColumns = []string{
	"nct_id",
	"sponsor_name",
	"resolved_name",
	"ticker",
	"exchange",
	"status",
	"wikidata_id",
}

// productColumns defines the ordered drug product output columns.
var productColumns = []string{
	"product_name",
	"active_ingredients_name",
	"active_ingredients_strength",
	"rxcui",
	"marketing_status",
	"dosage_form",
	"sponsor_name",
	"resolved_name",
	"ticker",
	"exchange",
	"status",
	"wikidata_id",
}

// SponsorRow pairs one trial sponsor record with its resolution.
type SponsorRow struct {
	Trial      extract.TrialSponsor
	Resolution resolve.Resolution
}

// ProductRow pairs one drug product with its sponsor's resolution.
type ProductRow struct {
	Product    extract.ProductRecord
	Sponsor    string
	Resolution resolve.Resolution
}

// WriteSponsorCSV writes the trial sponsor report to w.
func WriteSponsorCSV(w io.Writer, rows []SponsorRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sponsorColumns); err != nil {
		return eris.Wrap(err, "report: write sponsor header")
	}
	for _, r := range rows {
		record := append([]string{r.Trial.NCTID, r.Trial.Name}, r.Resolution.Fields()...)
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "report: write sponsor row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush sponsor rows")
}

// WriteProductCSV writes the drug product report to w.
func WriteProductCSV(w io.Writer, rows []ProductRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(productColumns); err != nil {
		return eris.Wrap(err, "report: write product header")
	}
	for _, r := range rows {
		p := r.Product
		record := append([]string{
			p.BrandName,
			p.IngredientNames,
			p.IngredientStrengths,
			p.RxCUI,
			p.MarketingStatus,
			p.DosageForm,
			r.Sponsor,
		}, r.Resolution.Fields()...)
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "report: write product row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush product rows")
}

// WriteUnresolved writes the distinct unresolved names as a
// single-column CSV.
func WriteUnresolved(w io.Writer, names []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"unresolved_sponsor_name"}); err != nil {
		return eris.Wrap(err, "report: write unresolved header")
	}
	for _, name := range names {
		if err := cw.Write([]string{name}); err != nil {
			return eris.Wrap(err, "report: write unresolved name")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush unresolved names")
}

// ExportSponsorCSV writes the trial sponsor report to a file at path.
func ExportSponsorCSV(path string, rows []SponsorRow) error {
	return exportFile(path, func(f *os.File) error {
		return WriteSponsorCSV(f, rows)
	})
}

// ExportProductCSV writes the drug product report to a file at path.
func ExportProductCSV(path string, rows []ProductRow) error {
	return exportFile(path, func(f *os.File) error {
		return WriteProductCSV(f, rows)
	})
}

// ExportUnresolved writes the unresolved name list to a file at path.
func ExportUnresolved(path string, names []string) error {
	return exportFile(path, func(f *os.File) error {
		return WriteUnresolved(f, names)
	})
}

func exportFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return err
	}
	return eris.Wrapf(f.Close(), "report: close %s", path)
}
