package wikidata

import (
	"fmt"
	"regexp"
	"strings"
)

// Shared prefix header. The Wikidata query service predefines these, but
// declaring them keeps the queries portable to other SPARQL backends.
const prefixes = `PREFIX wd: <http://www.wikidata.org/entity/>
PREFIX wdt: <http://www.wikidata.org/prop/direct/>
PREFIX p: <http://www.wikidata.org/prop/>
PREFIX ps: <http://www.wikidata.org/prop/statement/>
PREFIX pq: <http://www.wikidata.org/prop/qualifier/>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
`

// Wikidata properties and classes used across the queries.
const (
	propNCTID      = "P3098" // ClinicalTrials.gov ID
	propSponsor    = "P859"  // sponsor
	propTicker     = "P249"  // ticker symbol
	propExchange   = "P414"  // stock exchange
	propReplacedBy = "P1366" // replaced by
	propFollowedBy = "P156"  // followed by
	propParentOrg  = "P749"  // parent organization
	propOwnedBy    = "P127"  // owned by
	propDissolved  = "P576"  // dissolved, abolished or demolished date
	propInstanceOf = "P31"   // instance of
	propSubclassOf = "P279"  // subclass of
	propProduct    = "P1056" // product or material produced
	propManufact   = "P176"  // manufacturer
	propPartOf     = "P361"  // part of
	propOperator   = "P137"  // operator

	classOrganization = "Q43229"
	classBusiness     = "Q4830453"
)

var qidPattern = regexp.MustCompile(`^Q\d+$`)

// escapeLiteral makes a string safe for embedding in a SPARQL string literal.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// valuesClause renders a VALUES list of entity refs, dropping anything
// that is not a well-formed QID.
func valuesClause(qids []string) string {
	var sb strings.Builder
	for _, q := range qids {
		if !qidPattern.MatchString(q) {
			continue
		}
		sb.WriteString("wd:")
		sb.WriteString(q)
		sb.WriteByte(' ')
	}
	return strings.TrimSpace(sb.String())
}

// TrialSponsor is the typed result of TrialSponsorQuery.
type TrialSponsor struct {
	TrialLabel   string
	CompanyQID   string
	CompanyLabel string
}

// TrialSponsorQuery finds the trial and its linked sponsor for a
// ClinicalTrials.gov identifier.
func TrialSponsorQuery(nctID string) string {
	return fmt.Sprintf(`%s
SELECT DISTINCT ?trialLabel ?company ?companyLabel WHERE {
  ?trial wdt:%s "%s" ;
         rdfs:label ?trialLabel .
  FILTER(LANG(?trialLabel) = "en")
  OPTIONAL {
    ?trial wdt:%s ?company .
    ?company rdfs:label ?companyLabel .
    FILTER(LANG(?companyLabel) = "en")
  }
}
LIMIT 1`, prefixes, propNCTID, escapeLiteral(nctID), propSponsor)
}

// DecodeTrialSponsor maps a binding row to a TrialSponsor.
func DecodeTrialSponsor(b Binding) TrialSponsor {
	return TrialSponsor{
		TrialLabel:   b.StringOr("trialLabel", "Unknown"),
		CompanyQID:   b.QID("company"),
		CompanyLabel: b.String("companyLabel"),
	}
}

// Company is an entity reference with its English label.
type Company struct {
	QID   string
	Label string
}

// CompanyByTickerQuery finds the company holding a ticker symbol directly.
func CompanyByTickerQuery(ticker string) string {
	return fmt.Sprintf(`%s
SELECT DISTINCT ?company ?companyLabel WHERE {
  ?company wdt:%s ?ticker .
  FILTER(STR(?ticker) = "%s")
  OPTIONAL {
    ?company rdfs:label ?companyLabel .
    FILTER(LANG(?companyLabel) = "en")
  }
}
LIMIT 1`, prefixes, propTicker, escapeLiteral(ticker))
}

// DecodeCompany maps a binding row with company/companyLabel variables.
func DecodeCompany(b Binding) Company {
	return Company{
		QID:   b.QID("company"),
		Label: b.StringOr("companyLabel", "Unknown"),
	}
}

// TickerListing is the typed result of TickerVerifyQuery: every way a
// candidate can be tied to a ticker, plus links out of listing items
// (ADRs and the like) to the underlying company.
type TickerListing struct {
	QID             string
	DirectTicker    string
	StatementTicker string
	QualifierTicker string
	CompanyQID      string // via part-of
	CompanyLabel    string
	OperatorQID     string // via operator
	OperatorLabel   string
	Alias           string
}

// Ticker returns the first non-empty ticker representation.
func (l TickerListing) Ticker() string {
	switch {
	case l.DirectTicker != "":
		return l.DirectTicker
	case l.StatementTicker != "":
		return l.StatementTicker
	default:
		return l.QualifierTicker
	}
}

// TickerVerifyQuery probes search candidates for any ticker statement and
// for company links from listing items.
func TickerVerifyQuery(qids []string) string {
	return fmt.Sprintf(`%s
SELECT ?item ?ticker ?stmtTicker ?qualTicker ?companyRef ?companyRefLabel ?operatorRef ?operatorRefLabel ?alias WHERE {
  VALUES ?item { %s }
  OPTIONAL { ?item wdt:%s ?ticker . }
  OPTIONAL { ?item p:%s/ps:%s ?stmtTicker . }
  OPTIONAL {
    ?item p:%s ?exchangeStmt .
    ?exchangeStmt pq:%s ?qualTicker .
  }
  OPTIONAL { ?item wdt:%s ?companyRef . ?companyRef rdfs:label ?companyRefLabel . FILTER(LANG(?companyRefLabel) = "en") }
  OPTIONAL { ?item wdt:%s ?operatorRef . ?operatorRef rdfs:label ?operatorRefLabel . FILTER(LANG(?operatorRefLabel) = "en") }
  OPTIONAL { ?item skos:altLabel ?alias . FILTER(LANG(?alias) = "en") }
}`, prefixes, valuesClause(qids),
		propTicker, propTicker, propTicker,
		propExchange, propTicker,
		propPartOf, propOperator)
}

// DecodeTickerListing maps a binding row to a TickerListing.
func DecodeTickerListing(b Binding) TickerListing {
	return TickerListing{
		QID:             b.QID("item"),
		DirectTicker:    b.String("ticker"),
		StatementTicker: b.String("stmtTicker"),
		QualifierTicker: b.String("qualTicker"),
		CompanyQID:      b.QID("companyRef"),
		CompanyLabel:    b.String("companyRefLabel"),
		OperatorQID:     b.QID("operatorRef"),
		OperatorLabel:   b.String("operatorRefLabel"),
		Alias:           b.String("alias"),
	}
}

// CandidateSignals is the typed result of CandidateSignalsQuery: the
// boolean disambiguation signals for one candidate.
type CandidateSignals struct {
	QID            string
	HasTicker      bool
	HasParent      bool
	HasOwner       bool
	WasSucceeded   bool
	WasDissolved   bool
	IsOrganization bool
}

// CandidateSignalsQuery probes all candidates jointly for the signals the
// scorer weighs. Historical companies are recognized through successor
// and dissolution statements.
func CandidateSignalsQuery(qids []string) string {
	return fmt.Sprintf(`%s
SELECT DISTINCT ?item ?hasTicker ?hasParent ?hasOwner ?wasSucceeded ?wasDissolved ?isOrg WHERE {
  VALUES ?item { %s }
  OPTIONAL { ?item wdt:%s ?ticker . BIND(1 AS ?hasTicker) }
  OPTIONAL { ?item wdt:%s ?parent . BIND(1 AS ?hasParent) }
  OPTIONAL { ?item wdt:%s ?owner . BIND(1 AS ?hasOwner) }
  OPTIONAL { ?item wdt:%s ?successor . BIND(1 AS ?wasSucceeded) }
  OPTIONAL { ?item wdt:%s ?dissolved . BIND(1 AS ?wasDissolved) }
  OPTIONAL {
    { ?item wdt:%s/wdt:%s* wd:%s . } UNION { ?item wdt:%s/wdt:%s* wd:%s . }
    BIND(1 AS ?isOrg)
  }
}`, prefixes, valuesClause(qids),
		propTicker, propParentOrg, propOwnedBy, propReplacedBy, propDissolved,
		propInstanceOf, propSubclassOf, classOrganization,
		propInstanceOf, propSubclassOf, classBusiness)
}

// DecodeCandidateSignals maps a binding row to CandidateSignals.
func DecodeCandidateSignals(b Binding) CandidateSignals {
	return CandidateSignals{
		QID:            b.QID("item"),
		HasTicker:      b.Has("hasTicker"),
		HasParent:      b.Has("hasParent"),
		HasOwner:       b.Has("hasOwner"),
		WasSucceeded:   b.Has("wasSucceeded"),
		WasDissolved:   b.Has("wasDissolved"),
		IsOrganization: b.Has("isOrg"),
	}
}

// LineageRow is one terminal candidate from the lineage traversal.
type LineageRow struct {
	CurrentName     string
	DirectTicker    string
	QualifierTicker string
	StatementTicker string
	ExchangeLabel   string
	Dissolved       bool
}

// Ticker coalesces the three ticker representations, first non-empty wins.
func (r LineageRow) Ticker() string {
	switch {
	case r.DirectTicker != "":
		return r.DirectTicker
	case r.QualifierTicker != "":
		return r.QualifierTicker
	default:
		return r.StatementTicker
	}
}

// LineageQuery walks zero or more rename/merge/parent links from the
// entity to entities that have not themselves been superseded, and pulls
// market identifiers for each terminal. Ranking among terminals happens
// client-side.
func LineageQuery(qid string) string {
	return fmt.Sprintf(`%s
SELECT DISTINCT ?currentName ?directTicker ?qualTicker ?stmtTicker ?exchangeLabel ?dissolved WHERE {
  VALUES ?entity { wd:%s }
  ?entity (wdt:%s|wdt:%s|wdt:%s)* ?currentEntity .
  FILTER NOT EXISTS { ?currentEntity wdt:%s ?futureReplacement . }
  ?currentEntity rdfs:label ?currentName .
  FILTER(LANG(?currentName) = "en")
  OPTIONAL { ?currentEntity wdt:%s ?directTicker . }
  OPTIONAL {
    ?currentEntity p:%s ?exchangeStmt .
    ?exchangeStmt ps:%s ?exchange .
    ?exchange rdfs:label ?exchangeLabel .
    FILTER(LANG(?exchangeLabel) = "en")
    OPTIONAL { ?exchangeStmt pq:%s ?qualTicker . }
  }
  OPTIONAL { ?currentEntity p:%s/ps:%s ?stmtTicker . }
  OPTIONAL { ?currentEntity wdt:%s ?dissolved . }
}
LIMIT 25`, prefixes, qid,
		propReplacedBy, propFollowedBy, propParentOrg,
		propReplacedBy,
		propTicker,
		propExchange, propExchange, propTicker,
		propTicker, propTicker,
		propDissolved)
}

// DecodeLineageRow maps a binding row to a LineageRow.
func DecodeLineageRow(b Binding) LineageRow {
	return LineageRow{
		CurrentName:     b.String("currentName"),
		DirectTicker:    b.String("directTicker"),
		QualifierTicker: b.String("qualTicker"),
		StatementTicker: b.String("stmtTicker"),
		ExchangeLabel:   b.String("exchangeLabel"),
		Dissolved:       b.Has("dissolved"),
	}
}

// Product is a commercial product linked to a company.
type Product struct {
	QID   string
	Label string
}

// CompanyProductsQuery lists products produced or manufactured by the
// company, filtering out generic placeholder labels.
func CompanyProductsQuery(qid string) string {
	return fmt.Sprintf(`%s
SELECT DISTINCT ?product ?productLabel WHERE {
  { wd:%s wdt:%s ?product . } UNION { ?product wdt:%s wd:%s . }
  ?product rdfs:label ?productLabel .
  FILTER(LANG(?productLabel) = "en")
  FILTER(?productLabel != "medication"@en)
  FILTER(?productLabel != "pharmaceutical product"@en)
  FILTER(?productLabel != "drug"@en)
}
LIMIT 50`, prefixes, qid, propProduct, propManufact, qid)
}

// DecodeProduct maps a binding row to a Product.
func DecodeProduct(b Binding) Product {
	return Product{
		QID:   b.QID("product"),
		Label: b.String("productLabel"),
	}
}
