package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/normalizer"
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/pkg/matcher"
)

var suffixes = []string{"大学", "师范大学", "理工大学", "医科大学", "农业大学", "工业大学"}

var englishSuffixes = []string{
	"University", "Normal University", "University of Science and Technology",
	"Medical University", "Agricultural University", "University of Technology",
}

// generateRecords builds a synthetic collection of region x type names,
// half of them carrying an English name.
func generateRecords(n int) []matcher.Record {
	regions := config.DefaultTableSpec().Regions
	out := make([]matcher.Record, 0, n)
	for i := 0; len(out) < n; i++ {
		r := regions[i%len(regions)]
		s := (i / len(regions)) % len(suffixes)
		rec := matcher.Record{"院校名称": fmt.Sprintf("%s%s", r, suffixes[s])}
		if i%2 == 0 {
			rec["英文名称"] = fmt.Sprintf("Region%d %s", i%len(regions), englishSuffixes[s])
		}
		if i >= len(regions)*len(suffixes) {
			rec["院校名称"] = fmt.Sprintf("%s第%d%s", r, i, suffixes[s])
		}
		out = append(out, rec)
	}
	return out
}

func generateQueries(n int) []string {
	base := []string{
		"安徽理工大学Anhui University of Science",
		"北京大学",
		"北大",
		"四川师范大学",
		"Region4 Normal Univ",
		"湖南医科大",
		"不存在的学校",
		"安徽 大学",
	}
	out := make([]string, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

func newMatcher(b *testing.B, opts ...matcher.Option) *matcher.Matcher {
	b.Helper()
	m, err := matcher.New(append([]matcher.Option{matcher.WithSilentLogging()}, opts...)...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = m.Close() })
	return m
}

// BenchmarkNormalizer measures normalization of short and long names.
func BenchmarkNormalizer(b *testing.B) {
	norm := normalizer.NewInstitutionNormalizer()
	inputs := []struct {
		name  string
		input string
	}{
		{"Chinese", "（安徽）理工大学·淮南校区"},
		{"English", "  The Anhui University of Science & Technology, Huainan  "},
		{"FullWidth", "ＡＮＨＵＩ　ＵＮＩＶＥＲＳＩＴＹ"},
		{"Long", strings.Repeat("安徽理工大学 Anhui University ", 50)},
	}
	for _, in := range inputs {
		b.Run(in.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(in.input)))
			for i := 0; i < b.N; i++ {
				_ = norm.Normalize(in.input)
			}
		})
	}
}

// BenchmarkMatch measures a single query against collections of growing size.
func BenchmarkMatch(b *testing.B) {
	m := newMatcher(b)
	queries := generateQueries(8)

	for _, size := range []int{50, 500, 2000} {
		recs := generateRecords(size)
		b.Run(fmt.Sprintf("Records-%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = m.Match(queries[i%len(queries)], recs)
			}
		})
	}
}

// BenchmarkRomanization compares the English path with and without
// romanized reference names.
func BenchmarkRomanization(b *testing.B) {
	recs := generateRecords(500)
	for _, romanize := range []bool{true, false} {
		policy := config.DefaultPathPolicy()
		policy.Romanize = romanize
		m := newMatcher(b, matcher.WithPathPolicy(policy))

		b.Run(fmt.Sprintf("Romanize-%v", romanize), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = m.Match("Sichuan Normal University", recs)
			}
		})
	}
}

// BenchmarkBatch compares sequential and parallel batches, with and
// without memoization of repeated queries.
func BenchmarkBatch(b *testing.B) {
	recs := generateRecords(500)
	queries := generateQueries(200)

	cases := []struct {
		name     string
		workers  int
		memoize  bool
		parallel bool
	}{
		{"Sequential", 1, false, false},
		{"Sequential-Memo", 1, true, false},
		{"Parallel-4", 4, false, true},
		{"Parallel-4-Memo", 4, true, true},
		{"Parallel-Max-Memo", 0, true, true},
	}

	for _, bc := range cases {
		m := newMatcher(b, matcher.WithWorkers(bc.workers), matcher.WithMemoization(bc.memoize))
		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if bc.parallel {
					if _, err := m.ParallelBatchMatch(context.Background(), queries, recs, nil); err != nil {
						b.Fatal(err)
					}
				} else {
					_ = m.BatchMatch(queries, recs, nil)
				}
			}
		})
	}
}

// BenchmarkWarmUp measures the first query with and without warm-up.
func BenchmarkWarmUp(b *testing.B) {
	recs := generateRecords(200)
	for _, warm := range []bool{false, true} {
		b.Run(fmt.Sprintf("WarmUp-%v", warm), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				m, err := matcher.New(matcher.WithSilentLogging(), matcher.WithWarmUp(warm))
				if err != nil {
					b.Fatal(err)
				}
				b.StartTimer()
				_ = m.Match("安徽理工大学Anhui University of Science", recs)
				b.StopTimer()
				_ = m.Close()
				b.StartTimer()
			}
		})
	}
}
