package config

import (
	"fmt"
	"strings"
)

// Term maps a short or source form to its replacement.
type Term struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// TableSpec is the mutable description of the lookup tables. It is turned
// into an immutable Tables value by NewTables.
type TableSpec struct {
	// Abbreviations are scanned in order; the first shorthand found wins.
	Abbreviations []Term `toml:"abbreviations"`
	// EnglishAbbreviations expand whole Latin words.
	EnglishAbbreviations map[string]string `toml:"english_abbreviations"`
	Regions              []string          `toml:"regions"`
	InstitutionTypes     []string          `toml:"institution_types"`
	StopWords            []string          `toml:"stop_words"`
	EnglishTypes         []string          `toml:"english_types"`
	EnglishStopWords     []string          `toml:"english_stop_words"`
	// Glossary translates Chinese name parts when romanizing.
	Glossary []Term `toml:"glossary"`
	// Romanizations pin the reading of polyphonic place names.
	Romanizations map[string]string `toml:"romanizations"`
	// NameFields are the record keys probed for institution names, in priority order.
	NameFields []string `toml:"name_fields"`
}

// DefaultTableSpec returns a fresh copy of the built-in tables.
func DefaultTableSpec() TableSpec {
	return TableSpec{
		Abbreviations: []Term{
			{"北大", "北京大学"},
			{"清华", "清华大学"},
			{"复旦", "复旦大学"},
			{"上交", "上海交通大学"},
			{"西交", "西安交通大学"},
			{"中科大", "中国科学技术大学"},
			{"哈工大", "哈尔滨工业大学"},
			{"北航", "北京航空航天大学"},
			{"北理工", "北京理工大学"},
			{"华科", "华中科技大学"},
			{"中大", "中山大学"},
			{"华南理工", "华南理工大学"},
			{"川大", "四川大学"},
			{"重大", "重庆大学"},
			{"西工大", "西北工业大学"},
			{"北师大", "北京师范大学"},
			{"华师大", "华东师范大学"},
			{"南师大", "南京师范大学"},
			{"华师", "华中师范大学"},
			{"陕师大", "陕西师范大学"},
			{"东师", "东北师范大学"},
			{"西南大学", "西南师范大学"},
			{"湖师大", "湖南师范大学"},
			{"华农", "华中农业大学"},
			{"南农", "南京农业大学"},
			{"西农", "西北农林科技大学"},
			{"中农", "中国农业大学"},
		},
		EnglishAbbreviations: map[string]string{
			"univ": "university",
			"coll": "college",
			"inst": "institute",
			"tech": "technology",
			"sci":  "science",
			"eng":  "engineering",
			"med":  "medical",
			"agri": "agriculture",
			"norm": "normal",
		},
		Regions: []string{
			"北京", "上海", "天津", "重庆", "广东", "江苏", "浙江", "山东",
			"河南", "湖北", "湖南", "河北", "安徽", "福建", "江西", "四川",
			"陕西", "山西", "辽宁", "吉林", "黑龙江", "广西", "云南", "贵州",
			"青海", "甘肃", "新疆", "西藏", "宁夏", "内蒙古", "海南", "台湾",
			"香港", "澳门",
		},
		InstitutionTypes: []string{
			"大学", "学院", "学校", "university", "college", "institute", "school",
		},
		StopWords:        []string{"的", "和", "与", "of", "and", "the", "in", "at", "for"},
		EnglishTypes:     []string{"university", "college", "institute", "school"},
		EnglishStopWords: []string{"of", "and", "the", "in", "at", "for", "university", "college", "institute", "school"},
		Glossary: []Term{
			{"航空航天", "aeronautics astronautics"},
			{"外国语", "foreign studies"},
			{"大学", "university"},
			{"学院", "college"},
			{"学校", "school"},
			{"师范", "normal"},
			{"理工", "science technology"},
			{"科技", "science technology"},
			{"财经", "finance economics"},
			{"艺术", "arts"},
			{"农林", "agriculture forestry"},
			{"农业", "agricultural"},
			{"医科", "medical"},
			{"工业", "industrial"},
			{"中国", "china"},
		},
		Romanizations: map[string]string{
			"重庆": "chongqing",
			"长春": "changchun",
			"长沙": "changsha",
			"厦门": "xiamen",
			"蚌埠": "bengbu",
			"六安": "luan",
			"陕西": "shaanxi",
		},
		NameFields: []string{
			"name", "university_name", "school_name", "institution_name",
			"院校名称", "学校名称", "中文名称", "英文名称",
			"chinese_name", "english_name", "院校中文名", "院校英文名",
			"名称", "学校", "院校", "Name", "University", "School",
		},
	}
}

// Tables is the immutable, validated form of a TableSpec. Accessors return
// copies so callers cannot alter shared state.
type Tables struct {
	spec TableSpec
}

// NewTables validates spec and takes a private copy of it.
func NewTables(spec TableSpec) (*Tables, error) {
	if len(spec.InstitutionTypes) == 0 {
		return nil, fmt.Errorf("institution_types: %w", ErrEmptyTable)
	}
	if len(spec.NameFields) == 0 {
		return nil, fmt.Errorf("name_fields: %w", ErrEmptyTable)
	}
	for i, t := range spec.Abbreviations {
		if t.From == "" || t.To == "" {
			return nil, fmt.Errorf("abbreviation %d has an empty side: %w", i, ErrEmptyTable)
		}
	}
	for i, t := range spec.Glossary {
		if t.From == "" || t.To == "" {
			return nil, fmt.Errorf("glossary entry %d has an empty side: %w", i, ErrEmptyTable)
		}
	}
	return &Tables{spec: cloneSpec(spec)}, nil
}

// DefaultTables returns the built-in tables.
func DefaultTables() *Tables {
	t, err := NewTables(DefaultTableSpec())
	if err != nil {
		panic(err)
	}
	return t
}

// Spec returns a copy of the underlying description.
func (t *Tables) Spec() TableSpec { return cloneSpec(t.spec) }

func (t *Tables) Abbreviations() []Term { return append([]Term(nil), t.spec.Abbreviations...) }

func (t *Tables) EnglishAbbreviations() map[string]string {
	return lowerMap(t.spec.EnglishAbbreviations)
}

func (t *Tables) Regions() []string          { return append([]string(nil), t.spec.Regions...) }
func (t *Tables) InstitutionTypes() []string { return lowerAll(t.spec.InstitutionTypes) }
func (t *Tables) StopWords() []string        { return lowerAll(t.spec.StopWords) }
func (t *Tables) EnglishTypes() []string     { return lowerAll(t.spec.EnglishTypes) }
func (t *Tables) EnglishStopWords() []string { return lowerAll(t.spec.EnglishStopWords) }
func (t *Tables) Glossary() []Term           { return append([]Term(nil), t.spec.Glossary...) }
func (t *Tables) Romanizations() map[string]string {
	return lowerMap(t.spec.Romanizations)
}
func (t *Tables) NameFields() []string { return append([]string(nil), t.spec.NameFields...) }

func cloneSpec(s TableSpec) TableSpec {
	return TableSpec{
		Abbreviations:        append([]Term(nil), s.Abbreviations...),
		EnglishAbbreviations: copyMap(s.EnglishAbbreviations),
		Regions:              append([]string(nil), s.Regions...),
		InstitutionTypes:     append([]string(nil), s.InstitutionTypes...),
		StopWords:            append([]string(nil), s.StopWords...),
		EnglishTypes:         append([]string(nil), s.EnglishTypes...),
		EnglishStopWords:     append([]string(nil), s.EnglishStopWords...),
		Glossary:             append([]Term(nil), s.Glossary...),
		Romanizations:        copyMap(s.Romanizations),
		NameFields:           append([]string(nil), s.NameFields...),
	}
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func lowerMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = strings.ToLower(v)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
