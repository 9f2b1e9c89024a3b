package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/biotech-analyzer/sponsor-cli/pkg/wikidata"
)

// ScoreWeights are the additive weights for each disambiguation signal.
// Strong organizational and market signals dominate weak ones.
type ScoreWeights struct {
	Ticker       int
	Succeeded    int
	Parent       int
	Owner        int
	Dissolved    int
	Organization int
}

// DefaultScoreWeights returns the tuned weight set.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Ticker:       5,
		Succeeded:    4,
		Parent:       3,
		Owner:        2,
		Dissolved:    2,
		Organization: 1,
	}
}

// Score computes the additive score for one candidate's signals.
func (w ScoreWeights) Score(sig wikidata.CandidateSignals) int {
	score := 0
	if sig.HasTicker {
		score += w.Ticker
	}
	if sig.WasSucceeded {
		score += w.Succeeded
	}
	if sig.HasParent {
		score += w.Parent
	}
	if sig.HasOwner {
		score += w.Owner
	}
	if sig.WasDissolved {
		score += w.Dissolved
	}
	if sig.IsOrganization {
		score += w.Organization
	}
	return score
}

// Scorer ranks search candidates by querying the graph for their
// disambiguation signals.
type Scorer struct {
	client  wikidata.Client
	weights ScoreWeights
}

// NewScorer creates a Scorer with the default weights.
func NewScorer(client wikidata.Client) *Scorer {
	return &Scorer{client: client, weights: DefaultScoreWeights()}
}

// WithWeights replaces the weight set.
func (s *Scorer) WithWeights(w ScoreWeights) *Scorer {
	s.weights = w
	return s
}

// Best returns the highest-scoring candidate id, or "" when no candidate
// carries any organizational signal. Candidates are probed with a single
// batched query. Ties break toward the earlier candidate in the input
// order: the first maximum wins, never a later equal score.
func (s *Scorer) Best(ctx context.Context, qids []string) (string, error) {
	if len(qids) == 0 {
		return "", nil
	}

	rows, err := s.client.Query(ctx, wikidata.CandidateSignalsQuery(qids))
	if err != nil {
		return "", eris.Wrap(err, "scorer: candidate signal probe")
	}

	// A candidate can span multiple result rows (the class-membership
	// union in particular); merge signals by OR before scoring.
	signals := make(map[string]wikidata.CandidateSignals, len(qids))
	for _, row := range rows {
		sig := wikidata.DecodeCandidateSignals(row)
		if sig.QID == "" {
			continue
		}
		prev := signals[sig.QID]
		signals[sig.QID] = wikidata.CandidateSignals{
			QID:            sig.QID,
			HasTicker:      prev.HasTicker || sig.HasTicker,
			HasParent:      prev.HasParent || sig.HasParent,
			HasOwner:       prev.HasOwner || sig.HasOwner,
			WasSucceeded:   prev.WasSucceeded || sig.WasSucceeded,
			WasDissolved:   prev.WasDissolved || sig.WasDissolved,
			IsOrganization: prev.IsOrganization || sig.IsOrganization,
		}
	}

	best := ""
	bestScore := 0
	for _, qid := range qids {
		sig, ok := signals[qid]
		if !ok {
			continue
		}
		score := s.weights.Score(sig)
		if score == 0 {
			// No organizational signal at all; excluded even if it was
			// the top search hit.
			continue
		}
		if score > bestScore {
			bestScore = score
			best = qid
		}
	}

	if best != "" {
		zap.L().Debug("candidate accepted",
			zap.String("component", "scorer"),
			zap.String("qid", best),
			zap.Int("score", bestScore),
			zap.Int("candidates", len(qids)),
		)
	}
	return best, nil
}
