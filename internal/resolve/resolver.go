package resolve

import (
	"context"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/biotech-analyzer/sponsor-cli/pkg/wikidata"
)

// Option configures the Resolver.
type Option func(*Resolver)

// WithSearchLimit sets the candidate limit per entity search.
func WithSearchLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.searchLimit = n
		}
	}
}

// WithVariationGenerator replaces the name variation generator.
func WithVariationGenerator(g *VariationGenerator) Option {
	return func(r *Resolver) {
		r.gen = g
	}
}

// WithScoreWeights replaces the candidate scoring weights.
func WithScoreWeights(w ScoreWeights) Option {
	return func(r *Resolver) {
		r.scorer.WithWeights(w)
	}
}

// WithTerminalRanker replaces the lineage terminal ranking policy.
func WithTerminalRanker(tr TerminalRanker) Option {
	return func(r *Resolver) {
		r.lineage.WithRanker(tr)
	}
}

// Resolver composes variation generation, candidate scoring, and lineage
// enrichment into a single resolve operation with a per-run cache.
// Individual network failures inside the ladder degrade to "no data";
// the ladder proceeds to its next fallback, never aborting the batch.
type Resolver struct {
	client      wikidata.Client
	gen         *VariationGenerator
	scorer      *Scorer
	lineage     *Lineage
	searchLimit int

	mu         sync.Mutex
	cache      *gocache.Cache
	unresolved []string
	log        *zap.Logger
}

// NewResolver creates a Resolver for the given graph client.
func NewResolver(client wikidata.Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:      client,
		gen:         NewVariationGenerator(),
		scorer:      NewScorer(client),
		lineage:     NewLineage(client),
		searchLimit: 5,
		cache:       gocache.New(gocache.NoExpiration, 0),
		log:         zap.L().With(zap.String("component", "resolver")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves a raw organization name through the fallback ladder:
// cache, variation search, scoring, lineage enrichment.
func (r *Resolver) Resolve(ctx context.Context, name string) Resolution {
	name = strings.TrimSpace(name)
	if res, ok := r.cached(name); ok {
		return res
	}
	return r.store(name, r.resolveByName(ctx, name))
}

// ResolveTrial resolves a trial sponsor, trying a direct identity query
// on the trial registry id before falling back to the name ladder. A
// direct hit skips the search ladder entirely.
func (r *Resolver) ResolveTrial(ctx context.Context, nctID, name string) Resolution {
	name = strings.TrimSpace(name)
	if res, ok := r.cached(name); ok {
		return res
	}

	rows, err := r.client.Query(ctx, wikidata.TrialSponsorQuery(nctID))
	if err != nil {
		r.log.Warn("trial identity query failed, falling back to name search",
			zap.String("nct_id", nctID), zap.Error(err))
	} else if len(rows) > 0 {
		ts := wikidata.DecodeTrialSponsor(rows[0])
		if ts.CompanyQID != "" {
			label := ts.CompanyLabel
			if label == "" {
				label = name
			}
			return r.store(name, r.enrich(ctx, ts.CompanyQID, label))
		}
	}

	return r.store(name, r.resolveByName(ctx, name))
}

// CompanyByTicker resolves a stock ticker symbol to its company: first a
// direct ticker-property query, then a search fallback that verifies
// candidates against every ticker representation and follows listing
// items (ADRs) to their underlying company.
func (r *Resolver) CompanyByTicker(ctx context.Context, symbol string) (wikidata.Company, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return wikidata.Company{}, false
	}

	rows, err := r.client.Query(ctx, wikidata.CompanyByTickerQuery(symbol))
	if err != nil {
		r.log.Warn("direct ticker query failed", zap.String("ticker", symbol), zap.Error(err))
	} else if len(rows) > 0 {
		if c := wikidata.DecodeCompany(rows[0]); c.QID != "" {
			return c, true
		}
	}

	candidates, err := r.client.SearchEntities(ctx, symbol, r.searchLimit)
	if err != nil {
		r.log.Warn("ticker search failed", zap.String("ticker", symbol), zap.Error(err))
		return wikidata.Company{}, false
	}
	if len(candidates) == 0 {
		return wikidata.Company{}, false
	}

	labels := make(map[string]string, len(candidates))
	qids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		qids = append(qids, c.ID)
		labels[c.ID] = c.Label
	}

	rows, err = r.client.Query(ctx, wikidata.TickerVerifyQuery(qids))
	if err != nil {
		r.log.Warn("ticker verification failed", zap.String("ticker", symbol), zap.Error(err))
		return wikidata.Company{}, false
	}

	for _, row := range rows {
		listing := wikidata.DecodeTickerListing(row)
		label := labels[listing.QID]

		// The item holds the ticker itself.
		if t := listing.Ticker(); t != "" && strings.EqualFold(strings.TrimSpace(t), symbol) {
			return wikidata.Company{QID: listing.QID, Label: label}, true
		}

		// The item is the listing (an ADR or depositary share) and links
		// to the underlying company.
		if strings.EqualFold(strings.TrimSpace(label), symbol) || strings.Contains(label, "ADR") {
			if listing.CompanyQID != "" {
				return wikidata.Company{QID: listing.CompanyQID, Label: listing.CompanyLabel}, true
			}
			if listing.OperatorQID != "" {
				return wikidata.Company{QID: listing.OperatorQID, Label: listing.OperatorLabel}, true
			}
		}

		// The ticker is an alias of the item.
		if strings.EqualFold(strings.TrimSpace(listing.Alias), symbol) {
			return wikidata.Company{QID: listing.QID, Label: label}, true
		}
	}

	return wikidata.Company{}, false
}

// Products lists the commercial products linked to a company entity.
func (r *Resolver) Products(ctx context.Context, qid string) ([]wikidata.Product, error) {
	rows, err := r.client.Query(ctx, wikidata.CompanyProductsQuery(qid))
	if err != nil {
		return nil, err
	}
	products := make([]wikidata.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, wikidata.DecodeProduct(row))
	}
	return products, nil
}

// Unresolved returns the distinct names that resolved to Unresolved, in
// first-seen order.
func (r *Resolver) Unresolved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.unresolved...)
}

// resolveByName walks the variation ladder: for the first variation whose
// search yields candidates that score above the exclusion threshold, the
// best candidate is accepted and enriched.
func (r *Resolver) resolveByName(ctx context.Context, name string) Resolution {
	for _, term := range r.gen.Variations(name) {
		candidates, err := r.client.SearchEntities(ctx, term, r.searchLimit)
		if err != nil {
			r.log.Warn("entity search failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		qids := make([]string, 0, len(candidates))
		labels := make(map[string]string, len(candidates))
		for _, c := range candidates {
			qids = append(qids, c.ID)
			labels[c.ID] = c.Label
		}

		best, err := r.scorer.Best(ctx, qids)
		if err != nil {
			r.log.Warn("candidate scoring failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		if best == "" {
			continue
		}

		label := labels[best]
		if label == "" {
			label = name
		}
		return r.enrich(ctx, best, label)
	}

	return Resolution{Name: name, Status: StatusUnresolved}
}

// enrich runs lineage resolution on an accepted entity and assembles the
// final Resolution. Enrichment failure degrades to the bare entity.
func (r *Resolver) enrich(ctx context.Context, qid, label string) Resolution {
	enr, err := r.lineage.Enrich(ctx, qid)
	if err != nil {
		r.log.Warn("lineage enrichment failed",
			zap.String("qid", qid), zap.Error(err))
		enr = Enrichment{}
	}

	name := enr.Name
	if name == "" {
		name = label
	}
	status := StatusActive
	if enr.Dissolved {
		status = StatusInactive
	}
	return Resolution{
		Name:      name,
		Tickers:   enr.Tickers,
		Exchanges: enr.Exchanges,
		Status:    status,
		QID:       qid,
	}
}

func (r *Resolver) cached(name string) (Resolution, bool) {
	if v, ok := r.cache.Get(name); ok {
		return v.(Resolution), true
	}
	return Resolution{}, false
}

// store writes the resolution at most once per name. A raced duplicate
// computation keeps the first stored value.
func (r *Resolver) store(name string, res Resolution) Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(name); ok {
		return v.(Resolution)
	}
	r.cache.Set(name, res, gocache.NoExpiration)
	if res.Status == StatusUnresolved {
		r.unresolved = append(r.unresolved, name)
	}
	return res
}
