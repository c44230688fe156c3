package dualpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/fields"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/logger"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/normalizer"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/separator"
	"github.com/baditaflorin/go_institution_matcher/internal/core/cascade"
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
)

// fixedMatcher returns a canned result and remembers what it was asked.
type fixedMatcher struct {
	result  domain.MatchResult
	queries []string
}

func (f *fixedMatcher) Match(query string, _ []domain.Record) domain.MatchResult {
	f.queries = append(f.queries, query)
	return f.result
}

func hit(name string, conf float64) domain.MatchResult {
	return domain.MatchResult{
		Record:     domain.Record{"name": name},
		Confidence: conf,
		Level:      domain.LevelFuzzy,
		Reason:     domain.ReasonFuzzy,
	}
}

var anyRecords = []domain.Record{{"name": "x"}}

func newOrchestrator(t *testing.T, cn, en *fixedMatcher, sel config.Selection) *Orchestrator {
	t.Helper()
	policy := config.DefaultPathPolicy()
	policy.Selection = sel
	o, err := NewOrchestrator(separator.NewLanguageSeparator(), cn, en, policy, logger.NewNopLogger())
	require.NoError(t, err)
	return o
}

func TestSelectionPolicy(t *testing.T) {
	tests := []struct {
		name      string
		selection config.Selection
		cn, en    domain.MatchResult
		path      domain.Path
		record    string
	}{
		{"Near-exact Chinese wins outright", config.SelectChineseFirst, hit("cn", 0.98), hit("en", 1.0), domain.PathChinese, "cn"},
		{"Near-exact Chinese wins under highest confidence", config.SelectHighestConfidence, hit("cn", 0.98), hit("en", 1.0), domain.PathChinese, "cn"},
		{"Any Chinese match is preferred", config.SelectChineseFirst, hit("cn", 0.7), hit("en", 0.95), domain.PathChinese, "cn"},
		{"Highest confidence takes English", config.SelectHighestConfidence, hit("cn", 0.7), hit("en", 0.95), domain.PathEnglish, "en"},
		{"Highest confidence tie goes to Chinese", config.SelectHighestConfidence, hit("cn", 0.9), hit("en", 0.9), domain.PathChinese, "cn"},
		{"English when Chinese misses", config.SelectChineseFirst, domain.NoMatch(), hit("en", 0.8), domain.PathEnglish, "en"},
		{"English when Chinese misses under highest confidence", config.SelectHighestConfidence, domain.NoMatch(), hit("en", 0.8), domain.PathEnglish, "en"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := newOrchestrator(t, &fixedMatcher{result: tc.cn}, &fixedMatcher{result: tc.en}, tc.selection)
			res := o.Match("北京大学Peking University", anyRecords)
			require.True(t, res.Matched())
			assert.Equal(t, tc.path, res.Path)
			assert.Equal(t, tc.record, res.Record["name"])
		})
	}
}

func TestBothPathsMiss(t *testing.T) {
	o := newOrchestrator(t, &fixedMatcher{result: domain.NoMatch()}, &fixedMatcher{result: domain.NoMatch()}, config.SelectChineseFirst)

	res := o.Match("北京大学Peking University", anyRecords)
	assert.False(t, res.Matched())
	assert.Equal(t, domain.PathNone, res.Path)
	assert.Equal(t, domain.LevelNone, res.Level)
	assert.Equal(t, -1, res.Index)
}

func TestHalvesAndMinimumLengths(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		chinese []string
		english []string
	}{
		{"Both halves run", "北京大学Peking University", []string{"北京大学"}, []string{"Peking University"}},
		{"One Han character is too short", "京Peking", nil, []string{"Peking"}},
		{"Two Latin letters are too short", "北京大学AB", []string{"北京大学"}, nil},
		{"Three Latin letters are enough", "北京大学ABC", []string{"北京大学"}, []string{"ABC"}},
		{"Neither half long enough", "京 1234", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cn := &fixedMatcher{result: domain.NoMatch()}
			en := &fixedMatcher{result: domain.NoMatch()}
			o := newOrchestrator(t, cn, en, config.SelectChineseFirst)

			res := o.Match(tc.query, anyRecords)
			assert.False(t, res.Matched())
			assert.Equal(t, tc.chinese, cn.queries)
			assert.Equal(t, tc.english, en.queries)
		})
	}
}

func TestEmptyInputSkipsBothPaths(t *testing.T) {
	cn := &fixedMatcher{result: hit("cn", 1)}
	en := &fixedMatcher{result: hit("en", 1)}
	o := newOrchestrator(t, cn, en, config.SelectChineseFirst)

	assert.False(t, o.Match("", anyRecords).Matched())
	assert.False(t, o.Match("北京大学", nil).Matched())
	assert.Empty(t, cn.queries)
	assert.Empty(t, en.queries)
}

func TestNilEnglishPath(t *testing.T) {
	cn := &fixedMatcher{result: domain.NoMatch()}
	o, err := NewOrchestrator(separator.NewLanguageSeparator(), cn, nil, config.DefaultPathPolicy(), logger.NewNopLogger())
	require.NoError(t, err)

	assert.False(t, o.Match("Peking University", anyRecords).Matched())
}

func TestNewOrchestratorValidates(t *testing.T) {
	policy := config.DefaultPathPolicy()
	policy.Selection = "loudest"
	_, err := NewOrchestrator(separator.NewLanguageSeparator(), &fixedMatcher{}, nil, policy, logger.NewNopLogger())
	assert.ErrorIs(t, err, config.ErrInvalidPolicy)

	_, err = NewOrchestrator(nil, &fixedMatcher{}, nil, config.DefaultPathPolicy(), logger.NewNopLogger())
	assert.Error(t, err)
}

func TestMixedQueryPrefersExactChinese(t *testing.T) {
	tables := config.DefaultTables()
	n := normalizer.NewInstitutionNormalizer()
	fx := fields.NewAliasExtractor(tables.NameFields())
	nop := logger.NewNopLogger()

	cn, err := cascade.NewMatcher(cascade.ChineseProfile(config.DefaultCascadeConfig(), tables, n, fx), nop)
	require.NoError(t, err)
	en, err := cascade.NewMatcher(cascade.EnglishProfile(config.DefaultCascadeConfig(), tables, n, fx), nop)
	require.NoError(t, err)
	o, err := NewOrchestrator(separator.NewLanguageSeparator(), cn, en, config.DefaultPathPolicy(), nop)
	require.NoError(t, err)

	records := []domain.Record{
		{"院校名称": "安徽大学", "英文名称": "Anhui University"},
		{"院校名称": "安徽理工大学"},
	}
	res := o.Match("安徽理工大学Anhui University of Science", records)
	assert.Equal(t, domain.PathChinese, res.Path)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, domain.LevelExact, res.Level)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, "安徽理工大学", res.Record["院校名称"])

	res = o.Match("Anhui University", records)
	assert.Equal(t, domain.PathEnglish, res.Path)
	assert.Equal(t, 0, res.Index)
}

// exactMatcher also answers verbatim lookups.
type exactMatcher struct {
	fixedMatcher
	exact      domain.MatchResult
	exactCalls int
}

func (e *exactMatcher) MatchExact(string, []domain.Record) domain.MatchResult {
	e.exactCalls++
	return e.exact
}

func TestVerbatimMixedQuery(t *testing.T) {
	tables := config.DefaultTables()
	n := normalizer.NewInstitutionNormalizer()
	fx := fields.NewAliasExtractor(tables.NameFields())
	nop := logger.NewNopLogger()

	cn, err := cascade.NewMatcher(cascade.ChineseProfile(config.DefaultCascadeConfig(), tables, n, fx), nop)
	require.NoError(t, err)
	en, err := cascade.NewMatcher(cascade.EnglishProfile(config.DefaultCascadeConfig(), tables, n, fx), nop)
	require.NoError(t, err)
	o, err := NewOrchestrator(separator.NewLanguageSeparator(), cn, en, config.DefaultPathPolicy(), nop)
	require.NoError(t, err)

	records := []domain.Record{
		{"name": "Anhui University of Science"},
		{"name": "安徽理工大学Anhui University of Science and Technology"},
	}
	res := o.Match("安徽理工大学Anhui University of Science and Technology", records)
	assert.Equal(t, domain.LevelExact, res.Level)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, domain.PathChinese, res.Path)
}

func TestVerbatimCheckOnlyForMixedQueries(t *testing.T) {
	cn := &exactMatcher{fixedMatcher: fixedMatcher{result: domain.NoMatch()}, exact: domain.NoMatch()}
	en := &fixedMatcher{result: hit("en", 0.8)}
	o, err := NewOrchestrator(separator.NewLanguageSeparator(), cn, en, config.DefaultPathPolicy(), logger.NewNopLogger())
	require.NoError(t, err)

	o.Match("安徽大学", anyRecords)
	o.Match("Anhui University", anyRecords)
	assert.Zero(t, cn.exactCalls)

	res := o.Match("安徽大学Anhui University", anyRecords)
	assert.Equal(t, 1, cn.exactCalls)
	assert.Equal(t, domain.PathEnglish, res.Path)

	cn.exact = hit("verbatim", 1)
	cn.exact.Level = domain.LevelExact
	res = o.Match("安徽大学Anhui University", anyRecords)
	assert.Equal(t, "verbatim", res.Record["name"])
	assert.Equal(t, domain.PathChinese, res.Path)
	assert.Len(t, cn.queries, 2)
}
