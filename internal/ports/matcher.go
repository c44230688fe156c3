package ports

import "github.com/baditaflorin/go_institution_matcher/internal/core/domain"

// NameFieldExtractor discovers the name-bearing values of a record.
// Implementations decide which fields count as names for a given data source.
type NameFieldExtractor interface {
	NameFields(record domain.Record) []string
}

// Matcher resolves a query against a reference collection.
type Matcher interface {
	Match(query string, records []domain.Record) domain.MatchResult
}

// ExactMatcher runs only the verbatim level of a cascade.
type ExactMatcher interface {
	MatchExact(query string, records []domain.Record) domain.MatchResult
}

// Resolver matches a query and attaches its quality tier.
type Resolver interface {
	Resolve(query string, records []domain.Record) domain.Annotated
}

// ProgressFunc receives the completed fraction of a batch, in (0,1].
type ProgressFunc func(fraction float64)
