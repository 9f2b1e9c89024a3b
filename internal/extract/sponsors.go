package extract

import (
	"context"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// AgencyClassIndustry marks the trial sponsor rows in scope.
const AgencyClassIndustry = "INDUSTRY"

// TrialSponsor is one industry-sponsored trial from the sponsor table.
type TrialSponsor struct {
	NCTID string
	Name  string
}

// LoadIndustrySponsors reads the pipe-delimited sponsor file and returns
// the industry-class rows sorted by trial id. A missing file is a fatal
// condition for the batch: there is nothing to resolve without it.
func LoadIndustrySponsors(ctx context.Context, path string) ([]TrialSponsor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: open sponsors file %s", path)
	}
	defer f.Close()

	var sponsors []TrialSponsor
	err = streamDelimited(ctx, f, '|', func(row map[string]string) error {
		if row["agency_class"] != AgencyClassIndustry {
			return nil
		}
		nct := row["nct_id"]
		name := row["name"]
		if nct == "" || name == "" {
			return nil
		}
		sponsors = append(sponsors, TrialSponsor{NCTID: nct, Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sponsors, func(i, j int) bool {
		return sponsors[i].NCTID < sponsors[j].NCTID
	})

	zap.L().Info("loaded industry sponsors",
		zap.String("component", "extract"),
		zap.String("path", path),
		zap.Int("trials", len(sponsors)),
	)
	return sponsors, nil
}
