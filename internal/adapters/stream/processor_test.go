package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/batch"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/logger"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// suffixResolver matches queries ending in 大学.
type suffixResolver struct{}

func (suffixResolver) Resolve(query string, _ []domain.Record) domain.Annotated {
	if !strings.HasSuffix(query, "大学") {
		return domain.Annotated{MatchResult: domain.NoMatch()}
	}
	return domain.Annotated{MatchResult: domain.MatchResult{
		Record:     domain.Record{"name": query},
		Index:      0,
		Confidence: 1,
		Level:      domain.LevelExact,
		Reason:     domain.ReasonExact,
	}}
}

type line struct {
	Query      string  `json:"query"`
	Position   int     `json:"position"`
	Confidence float64 `json:"confidence"`
	Index      int     `json:"index"`
}

func newProcessor(cfg ProcessingConfig) *Processor {
	d := batch.NewDriver(suffixResolver{}, logger.NewNopLogger(), batch.Options{Workers: 4})
	return NewProcessor(d, logger.NewNopLogger(), cfg)
}

func decodeLines(t *testing.T, out *bytes.Buffer) []line {
	t.Helper()
	var got []line
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		got = append(got, l)
	}
	require.NoError(t, sc.Err())
	return got
}

func TestProcessLineEndings(t *testing.T) {
	input := "北京大学\r\n清华大学\rsomething else\n\n  复旦大学  "
	var out bytes.Buffer

	stats, err := newProcessor(ProcessingConfig{}).Process(context.Background(), strings.NewReader(input), &out, nil)
	require.NoError(t, err)

	got := decodeLines(t, &out)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"北京大学", "清华大学", "something else", "复旦大学"},
		[]string{got[0].Query, got[1].Query, got[2].Query, got[3].Query})
	assert.Equal(t, -1, got[2].Index)
	assert.Equal(t, 1.0, got[3].Confidence)

	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 3, stats.Matched)
	assert.Equal(t, int64(len(input)), stats.BytesProcessed)
}

func TestProcessKeepBlank(t *testing.T) {
	var out bytes.Buffer
	stats, err := newProcessor(ProcessingConfig{KeepBlank: true}).
		Process(context.Background(), strings.NewReader("a大学\n\nb大学\n"), &out, nil)
	require.NoError(t, err)

	got := decodeLines(t, &out)
	require.Len(t, got, 3)
	assert.Equal(t, "", got[1].Query)
	assert.Equal(t, 2, stats.Matched)
}

func TestProcessPositionsAcrossBatches(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 23; i++ {
		fmt.Fprintf(&sb, "院校%d大学\n", i)
	}
	var out bytes.Buffer

	stats, err := newProcessor(ProcessingConfig{BatchSize: 5}).
		Process(context.Background(), strings.NewReader(sb.String()), &out, nil)
	require.NoError(t, err)

	got := decodeLines(t, &out)
	require.Len(t, got, 23)
	for i, l := range got {
		assert.Equal(t, i, l.Position)
		assert.Equal(t, fmt.Sprintf("院校%d大学", i), l.Query)
	}
	assert.Equal(t, 23, stats.Matched)
}

func TestProcessEmptyInput(t *testing.T) {
	var out bytes.Buffer
	stats, err := newProcessor(ProcessingConfig{}).Process(context.Background(), strings.NewReader(""), &out, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Lines)
	assert.Zero(t, out.Len())
}

func TestProcessLineTooLong(t *testing.T) {
	var out bytes.Buffer
	_, err := newProcessor(ProcessingConfig{MaxLineSize: 8}).
		Process(context.Background(), strings.NewReader("short\nthis line is far too long\n"), &out, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	stats, err := newProcessor(ProcessingConfig{BatchSize: 2}).
		Process(ctx, strings.NewReader("a大学\nb大学\nc大学\n"), &out, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Lines)
}
