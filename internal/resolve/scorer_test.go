package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotech-analyzer/sponsor-cli/pkg/wikidata"
)

func signalRow(qid string, signals ...string) wikidata.Binding {
	b := wikidata.Binding{"item": uriValue(qid)}
	for _, s := range signals {
		b[s] = litValue("1")
	}
	return b
}

func TestScorer_FirstMaxWinsOnTie(t *testing.T) {
	t.Parallel()

	// Scores: B=3 (parent), A=5 (ticker), C=5 (ticker). Input order
	// [B, A, C]: A is the first maximum, C must not win.
	client := &fakeClient{
		queryFn: func(string) ([]wikidata.Binding, error) {
			return []wikidata.Binding{
				signalRow("QB", "hasParent"),
				signalRow("QA", "hasTicker"),
				signalRow("QC", "hasTicker"),
			}, nil
		},
	}

	best, err := NewScorer(client).Best(context.Background(), []string{"QB", "QA", "QC"})
	require.NoError(t, err)
	assert.Equal(t, "QA", best)
}

func TestScorer_ZeroScoreExcluded(t *testing.T) {
	t.Parallel()

	// The first search hit has no organizational signal at all; it must
	// be excluded even though it came first.
	client := &fakeClient{
		queryFn: func(string) ([]wikidata.Binding, error) {
			return []wikidata.Binding{
				signalRow("Q1"),
				signalRow("Q2", "isOrg"),
			}, nil
		},
	}

	best, err := NewScorer(client).Best(context.Background(), []string{"Q1", "Q2"})
	require.NoError(t, err)
	assert.Equal(t, "Q2", best)
}

func TestScorer_NoCandidateClearsThreshold(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		queryFn: func(string) ([]wikidata.Binding, error) {
			return []wikidata.Binding{signalRow("Q1"), signalRow("Q2")}, nil
		},
	}

	best, err := NewScorer(client).Best(context.Background(), []string{"Q1", "Q2"})
	require.NoError(t, err)
	assert.Empty(t, best)
}

func TestScorer_EmptyInput_NoQuery(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	best, err := NewScorer(client).Best(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, best)

	queries, _ := client.calls()
	assert.Zero(t, queries)
}

func TestScorer_MergesSignalsAcrossRows(t *testing.T) {
	t.Parallel()

	// The class-membership union can split one candidate across rows.
	client := &fakeClient{
		queryFn: func(string) ([]wikidata.Binding, error) {
			return []wikidata.Binding{
				signalRow("Q1", "isOrg"),
				signalRow("Q1", "hasParent"),
				signalRow("Q2", "hasOwner", "isOrg"),
			}, nil
		},
	}

	// Q1 = 1+3 = 4, Q2 = 2+1 = 3.
	best, err := NewScorer(client).Best(context.Background(), []string{"Q2", "Q1"})
	require.NoError(t, err)
	assert.Equal(t, "Q1", best)
}

func TestScorer_QueryFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		queryFn: func(string) ([]wikidata.Binding, error) {
			return nil, errors.New("backend down")
		},
	}

	_, err := NewScorer(client).Best(context.Background(), []string{"Q1"})
	require.Error(t, err)
}

func TestScoreWeights_Additive(t *testing.T) {
	t.Parallel()

	w := DefaultScoreWeights()
	all := wikidata.CandidateSignals{
		HasTicker: true, WasSucceeded: true, HasParent: true,
		HasOwner: true, WasDissolved: true, IsOrganization: true,
	}
	assert.Equal(t, 17, w.Score(all))
	assert.Equal(t, 0, w.Score(wikidata.CandidateSignals{}))
	assert.Equal(t, 5, w.Score(wikidata.CandidateSignals{HasTicker: true}))
	assert.Equal(t, 6, w.Score(wikidata.CandidateSignals{WasSucceeded: true, WasDissolved: true}))
}
