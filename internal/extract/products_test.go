package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSponsorProducts_GroupsBySponsor(t *testing.T) {
	input := `{
		"meta": {"results": {"total": 3}},
		"results": [
			{
				"sponsor_name": "Acme Pharma",
				"products": [
					{
						"brand_name": "Acmezol",
						"active_ingredients": [
							{"name": "ACMEZOLAMIDE", "strength": "50MG"},
							{"name": "CAFFEINE", "strength": "10MG"}
						],
						"marketing_status": "Prescription",
						"dosage_form": "TABLET"
					}
				],
				"openfda": {"rxcui": ["100001", "100002"]}
			},
			{
				"sponsor_name": "Beta Bio",
				"products": [
					{
						"brand_name": "Betacure",
						"active_ingredients": [{"name": "BETACURINE", "strength": "5MG/ML"}],
						"marketing_status": "Discontinued",
						"dosage_form": "INJECTABLE"
					}
				],
				"openfda": {}
			},
			{
				"sponsor_name": "Acme Pharma",
				"products": [
					{
						"brand_name": "Acmezol XR",
						"active_ingredients": [{"name": "ACMEZOLAMIDE", "strength": "100MG"}],
						"marketing_status": "Prescription",
						"dosage_form": "TABLET, EXTENDED RELEASE"
					}
				],
				"openfda": {"rxcui": ["100003"]}
			}
		]
	}`

	groups, err := LoadSponsorProducts(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "Acme Pharma", groups[0].Sponsor)
	assert.Equal(t, "Beta Bio", groups[1].Sponsor)

	require.Len(t, groups[0].Products, 2)
	first := groups[0].Products[0]
	assert.Equal(t, "Acmezol", first.BrandName)
	assert.Equal(t, "ACMEZOLAMIDE; CAFFEINE", first.IngredientNames)
	assert.Equal(t, "50MG; 10MG", first.IngredientStrengths)
	assert.Equal(t, "100001; 100002", first.RxCUI)
	assert.Equal(t, "Acmezol XR", groups[0].Products[1].BrandName)
	assert.Equal(t, "100003", groups[0].Products[1].RxCUI)

	require.Len(t, groups[1].Products, 1)
	assert.Equal(t, "Discontinued", groups[1].Products[0].MarketingStatus)
	assert.Empty(t, groups[1].Products[0].RxCUI)
}

func TestLoadSponsorProducts_BrandNameFallback(t *testing.T) {
	input := `{
		"results": [
			{
				"sponsor_name": "Gamma Labs",
				"products": [
					{"brand_name": "", "active_ingredients": [{"name": "GAMMATIDE", "strength": "1MG"}]},
					{"brand_name": "Unknown", "active_ingredients": [{"name": "DELTATIDE", "strength": "2MG"}]},
					{"brand_name": "", "active_ingredients": []}
				],
				"openfda": {"brand_name": ["Gammafix", "Deltafix"]}
			}
		]
	}`

	groups, err := LoadSponsorProducts(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, groups, 1)
	products := groups[0].Products
	require.Len(t, products, 3)
	assert.Equal(t, "Gammafix", products[0].BrandName)
	assert.Equal(t, "Deltafix", products[1].BrandName)
	assert.Equal(t, "Unknown", products[2].BrandName)
}

func TestLoadSponsorProducts_MissingSponsorName(t *testing.T) {
	input := `{
		"results": [
			{
				"products": [{"brand_name": "Orphanol", "marketing_status": "OTC", "dosage_form": "CAPSULE"}]
			}
		]
	}`

	groups, err := LoadSponsorProducts(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, UnknownSponsor, groups[0].Sponsor)
	require.Len(t, groups[0].Products, 1)
	assert.Equal(t, "OTC", groups[0].Products[0].MarketingStatus)
}

func TestLoadSponsorProducts_MissingResultsKey(t *testing.T) {
	_, err := LoadSponsorProducts(context.Background(), strings.NewReader(`{"meta": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"results" not found`)
}

func TestLoadSponsorProducts_NotAnObject(t *testing.T) {
	_, err := LoadSponsorProducts(context.Background(), strings.NewReader(`[1, 2, 3]`))
	require.Error(t, err)
}

func TestLoadSponsorProducts_DefaultsStatusAndForm(t *testing.T) {
	input := `{
		"results": [
			{
				"sponsor_name": "Delta Inc",
				"products": [{"brand_name": "Deltapill"}]
			}
		]
	}`

	groups, err := LoadSponsorProducts(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	p := groups[0].Products[0]
	assert.Equal(t, "Unknown", p.MarketingStatus)
	assert.Equal(t, "Unknown", p.DosageForm)
}
