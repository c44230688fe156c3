// Package romanizer renders Chinese institution names in Latin script so
// that English-language queries can be compared with them.
package romanizer

import (
	"sort"
	"strings"
	"sync"

	"github.com/mozillazg/go-pinyin"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/separator"
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
)

// DefaultCacheSize bounds the number of memoized renderings.
const DefaultCacheSize = 4096

// Option configures a PinyinRomanizer.
type Option func(*PinyinRomanizer)

// WithCacheSize sets the cache bound; 0 disables caching.
func WithCacheSize(n int) Option {
	return func(p *PinyinRomanizer) {
		if n < 0 {
			n = 0
		}
		p.cacheSize = n
	}
}

type entry struct {
	from []rune
	to   string
}

// PinyinRomanizer translates glossary terms to English words and spells the
// remaining Han runs in toneless pinyin, one token per run.
//
//	安徽理工大学 -> anhui science technology university
type PinyinRomanizer struct {
	// entries are tried longest first at each position.
	entries []entry
	args    pinyin.Args

	mu sync.RWMutex
	// cache is dropped wholesale once it holds cacheSize entries, so its
	// size stays bounded however many distinct names the process sees.
	cache     map[string]string
	cacheSize int
}

// NewPinyinRomanizer builds a romanizer from the glossary and the fixed
// place-name readings of tables.
func NewPinyinRomanizer(tables *config.Tables, opts ...Option) *PinyinRomanizer {
	var entries []entry
	for from, to := range tables.Romanizations() {
		entries = append(entries, entry{from: []rune(from), to: to})
	}
	for _, t := range tables.Glossary() {
		entries = append(entries, entry{from: []rune(t.From), to: strings.ToLower(t.To)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if len(entries[i].from) != len(entries[j].from) {
			return len(entries[i].from) > len(entries[j].from)
		}
		return string(entries[i].from) < string(entries[j].from)
	})

	p := &PinyinRomanizer{
		entries:   entries,
		args:      pinyin.NewArgs(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cache = make(map[string]string, min(p.cacheSize, 256))
	return p
}

// Romanize returns the Latin rendering of text. Latin letters and digits
// pass through lower-cased; other characters separate tokens.
func (p *PinyinRomanizer) Romanize(text string) string {
	p.mu.RLock()
	if v, ok := p.cache[text]; ok {
		p.mu.RUnlock()
		return v
	}
	p.mu.RUnlock()

	out := p.romanize(text)
	if p.cacheSize == 0 {
		return out
	}

	p.mu.Lock()
	if len(p.cache) >= p.cacheSize {
		p.cache = make(map[string]string, min(p.cacheSize, 256))
	}
	p.cache[text] = out
	p.mu.Unlock()
	return out
}

func (p *PinyinRomanizer) romanize(text string) string {
	rs := []rune(text)
	var tokens []string
	var han []rune
	var latin strings.Builder

	flushHan := func() {
		if len(han) == 0 {
			return
		}
		if syllables := pinyin.LazyPinyin(string(han), p.args); len(syllables) > 0 {
			tokens = append(tokens, strings.Join(syllables, ""))
		}
		han = han[:0]
	}
	flushLatin := func() {
		if latin.Len() > 0 {
			tokens = append(tokens, strings.ToLower(latin.String()))
			latin.Reset()
		}
	}

	for i := 0; i < len(rs); {
		r := rs[i]
		if separator.IsHan(r) {
			flushLatin()
			if e, ok := p.lookup(rs[i:]); ok {
				flushHan()
				tokens = append(tokens, e.to)
				i += len(e.from)
				continue
			}
			han = append(han, r)
			i++
			continue
		}
		flushHan()
		if isAlnum(r) {
			latin.WriteRune(r)
		} else {
			flushLatin()
		}
		i++
	}
	flushHan()
	flushLatin()

	return strings.Join(tokens, " ")
}

func (p *PinyinRomanizer) lookup(rs []rune) (entry, bool) {
	for _, e := range p.entries {
		if len(e.from) <= len(rs) && string(rs[:len(e.from)]) == string(e.from) {
			return e, true
		}
	}
	return entry{}, false
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
