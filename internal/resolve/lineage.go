package resolve

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/biotech-analyzer/sponsor-cli/pkg/wikidata"
)

// Enrichment is the lineage fragment for a confirmed entity: the terminal
// entity's current name, its market identifiers, and whether it was
// dissolved.
type Enrichment struct {
	Name      string
	Tickers   []string
	Exchanges []string
	Dissolved bool
}

// TerminalRanker selects the canonical terminal row when the lineage
// traversal lands on more than one. The policy is deliberately swappable:
// the default is a heuristic best-match, not a true most-recent-event
// selection.
type TerminalRanker interface {
	Best(rows []wikidata.LineageRow) (wikidata.LineageRow, bool)
}

// marketListingRanker prefers rows with a ticker, then rows that are not
// dissolved. Within equal preference the earlier row wins.
type marketListingRanker struct{}

func (marketListingRanker) Best(rows []wikidata.LineageRow) (wikidata.LineageRow, bool) {
	bestIdx := -1
	bestRank := -1
	for i, row := range rows {
		rank := 0
		if row.Ticker() != "" {
			rank += 2
		}
		if !row.Dissolved {
			rank++
		}
		if rank > bestRank {
			bestRank = rank
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return wikidata.LineageRow{}, false
	}
	return rows[bestIdx], true
}

var lineageQIDPattern = regexp.MustCompile(`^Q\d+$`)

// Lineage walks successor/parent links from a confirmed entity to its
// current terminal form and extracts market identifiers along the way.
type Lineage struct {
	client wikidata.Client
	ranker TerminalRanker
}

// NewLineage creates a lineage resolver with the default ranking policy.
func NewLineage(client wikidata.Client) *Lineage {
	return &Lineage{client: client, ranker: marketListingRanker{}}
}

// WithRanker replaces the terminal ranking policy.
func (l *Lineage) WithRanker(r TerminalRanker) *Lineage {
	l.ranker = r
	return l
}

// Enrich traverses the lineage of the entity and returns its terminal
// fragment. An entity with no usable terminal rows yields an empty
// fragment, not an error; the caller keeps its existing label.
func (l *Lineage) Enrich(ctx context.Context, qid string) (Enrichment, error) {
	if !lineageQIDPattern.MatchString(qid) {
		return Enrichment{}, eris.Errorf("lineage: malformed entity id %q", qid)
	}

	rows, err := l.client.Query(ctx, wikidata.LineageQuery(qid))
	if err != nil {
		return Enrichment{}, eris.Wrapf(err, "lineage: traversal for %s", qid)
	}

	terminals := make([]wikidata.LineageRow, 0, len(rows))
	for _, row := range rows {
		terminals = append(terminals, wikidata.DecodeLineageRow(row))
	}

	best, ok := l.ranker.Best(terminals)
	if !ok {
		zap.L().Debug("lineage traversal returned no terminals",
			zap.String("component", "lineage"),
			zap.String("qid", qid),
		)
		return Enrichment{}, nil
	}

	enr := Enrichment{
		Name:      best.CurrentName,
		Dissolved: best.Dissolved,
	}
	if ticker := best.Ticker(); ticker != "" {
		enr.Tickers = normalizeSet([]string{ticker})
	}
	// Exchange labels only come from listing statements, alongside a ticker.
	if best.ExchangeLabel != "" {
		enr.Exchanges = normalizeSet([]string{best.ExchangeLabel})
	}
	return enr, nil
}
