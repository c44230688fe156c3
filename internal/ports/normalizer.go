package ports

import "github.com/baditaflorin/go_institution_matcher/internal/core/domain"

// Normalizer defines the interface for text normalization.
type Normalizer interface {
	Normalize(text string) string
}

// Separator splits a mixed-script name into its Chinese and Latin halves.
type Separator interface {
	Separate(text string) domain.Halves
}

// Expander rewrites known shorthand forms into full institution names.
type Expander interface {
	Expand(text string) string
}

// Romanizer renders a Chinese-script name in Latin script.
type Romanizer interface {
	Romanize(text string) string
}
