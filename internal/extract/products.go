package extract

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
)

// UnknownSponsor is the sentinel for application records without a
// sponsor name.
const UnknownSponsor = "UNKNOWN"

// ProductRecord is one flattened drug product.
type ProductRecord struct {
	BrandName           string
	IngredientNames     string // semicolon-joined
	IngredientStrengths string // semicolon-joined, parallel to names
	RxCUI               string // semicolon-joined cross-reference ids
	MarketingStatus     string
	DosageForm          string
}

// SponsorProducts groups the products of one sponsor, in record order.
type SponsorProducts struct {
	Sponsor  string
	Products []ProductRecord
}

// Shapes of the openFDA drug application stream.
type fdaIngredient struct {
	Name     string `json:"name"`
	Strength string `json:"strength"`
}

type fdaProduct struct {
	BrandName         string          `json:"brand_name"`
	ActiveIngredients []fdaIngredient `json:"active_ingredients"`
	MarketingStatus   string          `json:"marketing_status"`
	DosageForm        string          `json:"dosage_form"`
}

type fdaCrossRef struct {
	BrandName []string `json:"brand_name"`
	RxCUI     []string `json:"rxcui"`
}

type fdaApplication struct {
	SponsorName string      `json:"sponsor_name"`
	Products    []fdaProduct `json:"products"`
	OpenFDA     fdaCrossRef `json:"openfda"`
}

// LoadSponsorProducts streams the openFDA application records under the
// top-level "results" key and groups flattened products by sponsor name,
// preserving first-seen sponsor order.
func LoadSponsorProducts(ctx context.Context, r io.Reader) ([]SponsorProducts, error) {
	var order []string
	groups := make(map[string]int)
	var out []SponsorProducts
	var records int

	err := decodeArrayAt(ctx, r, "results", func(app fdaApplication) error {
		records++
		sponsor := strings.TrimSpace(app.SponsorName)
		if sponsor == "" {
			sponsor = UnknownSponsor
		}

		idx, seen := groups[sponsor]
		if !seen {
			idx = len(out)
			groups[sponsor] = idx
			order = append(order, sponsor)
			out = append(out, SponsorProducts{Sponsor: sponsor})
		}

		for i, p := range app.Products {
			brand := p.BrandName
			// The cross-reference block sometimes carries the brand name
			// the product record is missing.
			if (brand == "" || brand == "Unknown") && i < len(app.OpenFDA.BrandName) {
				brand = app.OpenFDA.BrandName[i]
			}
			if brand == "" {
				brand = "Unknown"
			}

			names := make([]string, 0, len(p.ActiveIngredients))
			strengths := make([]string, 0, len(p.ActiveIngredients))
			for _, ai := range p.ActiveIngredients {
				names = append(names, ai.Name)
				strengths = append(strengths, ai.Strength)
			}

			out[idx].Products = append(out[idx].Products, ProductRecord{
				BrandName:           brand,
				IngredientNames:     strings.Join(names, "; "),
				IngredientStrengths: strings.Join(strengths, "; "),
				RxCUI:               strings.Join(app.OpenFDA.RxCUI, "; "),
				MarketingStatus:     defaultString(p.MarketingStatus, "Unknown"),
				DosageForm:          defaultString(p.DosageForm, "Unknown"),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("extracted product records",
		zap.String("component", "extract"),
		zap.Int("applications", records),
		zap.Int("sponsors", len(order)),
	)
	return out, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
