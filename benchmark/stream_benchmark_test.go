package benchmark

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/baditaflorin/go_institution_matcher/pkg/matcher"
)

func generateInput(lines int, lineEnding string) string {
	var sb strings.Builder
	for i, q := range generateQueries(lines) {
		if i > 0 {
			sb.WriteString(lineEnding)
		}
		sb.WriteString(q)
	}
	return sb.String()
}

// BenchmarkStreamMatch measures line-oriented matching across batch sizes
// and line endings.
func BenchmarkStreamMatch(b *testing.B) {
	recs := generateRecords(500)

	cases := []struct {
		name      string
		batchSize int
		ending    string
	}{
		{"LF-Batch16", 16, "\n"},
		{"LF-Batch256", 256, "\n"},
		{"CRLF-Batch256", 256, "\r\n"},
		{"CR-Batch256", 256, "\r"},
	}

	for _, bc := range cases {
		input := generateInput(1000, bc.ending)
		m := newMatcher(b, matcher.WithStreamBatchSize(bc.batchSize))

		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(input)))
			for i := 0; i < b.N; i++ {
				stats, err := m.StreamMatch(context.Background(), strings.NewReader(input), io.Discard, recs)
				if err != nil {
					b.Fatal(err)
				}
				if stats.Lines != 1000 {
					b.Fatalf("processed %d lines", stats.Lines)
				}
			}
		})
	}
}
