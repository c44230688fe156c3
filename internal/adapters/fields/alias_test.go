package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
)

type upperRomanizer struct{}

func (upperRomanizer) Romanize(text string) string {
	if text == "北京大学" {
		return "beijing university"
	}
	return strings.ToUpper(text)
}

func TestAliasExtractor(t *testing.T) {
	x := NewAliasExtractor(config.DefaultTables().NameFields())

	tests := []struct {
		name     string
		record   domain.Record
		expected []string
	}{
		{"Nil record", nil, nil},
		{"Empty record", domain.Record{}, nil},
		{
			"Aliases in priority order",
			domain.Record{"英文名称": "Peking University", "院校名称": "北京大学"},
			[]string{"北京大学", "Peking University"},
		},
		{
			"Non-string values are absent",
			domain.Record{"name": 42, "院校名称": "北京大学", "英文名称": nil},
			[]string{"北京大学"},
		},
		{
			"Empty strings are absent",
			domain.Record{"name": "", "学校名称": "宿州学院"},
			[]string{"宿州学院"},
		},
		{
			"Fallback takes the first key in lexical order",
			domain.Record{"zeta": "Zeta College", "alpha": "Alpha College", "code": 10359},
			[]string{"Alpha College"},
		},
		{
			"Fallback skips blank strings",
			domain.Record{"a": "   ", "b": "Beta Institute"},
			[]string{"Beta Institute"},
		},
		{"No strings at all", domain.Record{"id": 1, "ok": true}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, x.NameFields(tc.record))
		})
	}
}

func TestWithRomanized(t *testing.T) {
	base := NewAliasExtractor([]string{"院校名称", "英文名称"})
	x := WithRomanized(base, upperRomanizer{})

	rec := domain.Record{"院校名称": "北京大学", "英文名称": "Peking University"}
	assert.Equal(t, []string{"北京大学", "Peking University", "beijing university"}, x.NameFields(rec))

	// the base output is left untouched
	assert.Equal(t, []string{"北京大学", "Peking University"}, base.NameFields(rec))

	latinOnly := domain.Record{"英文名称": "Anhui University"}
	assert.Equal(t, []string{"Anhui University"}, x.NameFields(latinOnly))
}
