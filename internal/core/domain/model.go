package domain

// Record is one reference institution, keyed by arbitrary field names.
// Values that are not strings are treated as absent by the matcher.
type Record map[string]interface{}

// Level identifies the cascade stage that produced a result.
type Level int

const (
	LevelNone Level = iota
	LevelExact
	LevelNormalized
	LevelKeyword
	LevelFuzzy
	LevelSemantic
)

// Reason labels.
const (
	ReasonExact      = "exact match"
	ReasonNormalized = "normalized match"
	ReasonKeyword    = "keyword match"
	ReasonFuzzy      = "fuzzy match"
	ReasonSemantic   = "semantic match"
	ReasonNoMatch    = "no match found"
)

// Reason returns the classification label for the level.
func (l Level) Reason() string {
	switch l {
	case LevelExact:
		return ReasonExact
	case LevelNormalized:
		return ReasonNormalized
	case LevelKeyword:
		return ReasonKeyword
	case LevelFuzzy:
		return ReasonFuzzy
	case LevelSemantic:
		return ReasonSemantic
	default:
		return ReasonNoMatch
	}
}

// Path tags which language-specific sub-match was selected.
type Path string

const (
	PathNone    Path = ""
	PathChinese Path = "chinese"
	PathEnglish Path = "english"
)

// Halves holds the two script-specific parts of a mixed name.
type Halves struct {
	Chinese string `json:"chinese"`
	English string `json:"english"`
}

// MatchResult holds the outcome of matching one query.
// Confidence is 0 and Record is nil exactly when Level is LevelNone.
type MatchResult struct {
	// Record points into the caller's reference collection.
	Record Record `json:"record"`
	// Index is the record's position in the collection, or -1.
	Index      int     `json:"index"`
	Confidence float64 `json:"confidence"`
	Level      Level   `json:"level"`
	Reason     string  `json:"reason"`
	Path       Path    `json:"match_path,omitempty"`
}

// NoMatch returns the level-0 failure result.
func NoMatch() MatchResult {
	return MatchResult{Index: -1, Level: LevelNone, Reason: ReasonNoMatch}
}

// Matched reports whether a record was selected.
func (r MatchResult) Matched() bool {
	return r.Record != nil
}

// Tier is the coarse quality band of a confidence value.
type Tier string

const (
	TierApproved Tier = "approved"
	TierReview   Tier = "review"
	TierFailed   Tier = "failed"
)

// Quality is the status/action annotation derived from confidence.
type Quality struct {
	Tier   Tier   `json:"tier"`
	Status string `json:"status"`
	Action string `json:"action"`
}

// Annotated is a match result with its quality annotation.
type Annotated struct {
	MatchResult
	Quality Quality `json:"quality"`
}

// BatchItem is one result of a batch run, tagged with its query.
type BatchItem struct {
	Query    string `json:"query"`
	Position int    `json:"position"`
	Annotated
}

// Summary aggregates a batch run.
type Summary struct {
	Total          int            `json:"total"`
	Matched        int            `json:"matched"`
	ByStatus       map[string]int `json:"by_status"`
	ByPath         map[Path]int   `json:"by_path"`
	ByLevel        map[Level]int  `json:"by_level"`
	SuccessRate    float64        `json:"success_rate"`
	MeanConfidence float64        `json:"mean_confidence"`
}
