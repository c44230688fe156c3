// Package stream resolves queries read line by line from an io.Reader and
// writes one JSON result per line, so inputs larger than memory can be
// processed in bounded batches.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/batch"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

const (
	// DefaultBatchSize defines how many lines are resolved together
	DefaultBatchSize = 256

	// DefaultMaxLineSize bounds a single query line
	DefaultMaxLineSize = 1024 * 1024
)

// ProcessingConfig defines configuration for stream processing
type ProcessingConfig struct {
	BatchSize   int
	MaxLineSize int
	// KeepBlank emits a level-0 result for blank lines instead of skipping
	// them, keeping output line numbers aligned with the input.
	KeepBlank bool
}

// Stats summarizes one stream run.
type Stats struct {
	Lines          int           `json:"lines"`
	Matched        int           `json:"matched"`
	BytesProcessed int64         `json:"bytes_processed"`
	Duration       time.Duration `json:"duration"`
}

// Processor implements line-oriented matching over a batch driver.
type Processor struct {
	driver *batch.Driver
	logger ports.Logger
	config ProcessingConfig
}

// NewProcessor creates a new stream processor
func NewProcessor(driver *batch.Driver, logger ports.Logger, config ProcessingConfig) *Processor {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.MaxLineSize <= 0 {
		config.MaxLineSize = DefaultMaxLineSize
	}
	return &Processor{driver: driver, logger: logger, config: config}
}

// Process reads queries from reader and writes one JSON-encoded BatchItem
// per query to writer, in input order. Position counts queries across the
// whole stream. Cancellation is checked between batches; the items already
// written stay written.
func (p *Processor) Process(ctx context.Context, reader io.Reader, writer io.Writer, records []domain.Record) (Stats, error) {
	startTime := time.Now()
	counter := &countingReader{r: reader}
	lines := newLineReader(counter, p.config.MaxLineSize)
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)

	var stats Stats
	offset := 0
	pending := make([]string, 0, p.config.BatchSize)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		items, err := p.driver.RunParallel(ctx, pending, records, nil)
		for _, it := range items {
			it.Position += offset
			if it.Matched() {
				stats.Matched++
			}
			if werr := enc.Encode(it); werr != nil {
				return fmt.Errorf("failed to write result: %w", werr)
			}
		}
		stats.Lines += len(items)
		offset += len(pending)
		pending = pending[:0]
		return err
	}

	for {
		line, err := lines.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Warn("Error reading from input", "error", err)
			stats.BytesProcessed = counter.n
			stats.Duration = time.Since(startTime)
			return stats, err
		}
		if line == "" && !p.config.KeepBlank {
			continue
		}
		pending = append(pending, line)
		if len(pending) >= p.config.BatchSize {
			if err := flush(); err != nil {
				return p.finish(stats, counter, startTime, err)
			}
		}
	}

	err := flush()
	return p.finish(stats, counter, startTime, err)
}

func (p *Processor) finish(stats Stats, counter *countingReader, startTime time.Time, err error) (Stats, error) {
	stats.BytesProcessed = counter.n
	stats.Duration = time.Since(startTime)
	if err != nil {
		p.logger.Warn("Stream processing stopped", "lines", stats.Lines, "error", err)
		return stats, err
	}
	p.logger.Debug("Stream processing completed",
		"lines", stats.Lines,
		"matched", stats.Matched,
		"bytes_processed", stats.BytesProcessed,
		"duration", stats.Duration,
	)
	return stats, nil
}

// lineReader splits on LF, CRLF and lone CR.
type lineReader struct {
	r       *bufio.Reader
	maxLine int
	buf     bytes.Buffer
}

func newLineReader(r io.Reader, maxLine int) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024), maxLine: maxLine}
}

// next returns the next line without its terminator, trimmed of surrounding
// whitespace. It returns io.EOF only when no data is left.
func (lr *lineReader) next() (string, error) {
	lr.buf.Reset()
	for {
		b, err := lr.r.ReadByte()
		if err == io.EOF {
			if lr.buf.Len() == 0 {
				return "", io.EOF
			}
			return string(bytes.TrimSpace(lr.buf.Bytes())), nil
		}
		if err != nil {
			return "", err
		}

		switch b {
		case '\n':
			return string(bytes.TrimSpace(lr.buf.Bytes())), nil
		case '\r':
			if nb, err := lr.r.Peek(1); err == nil && nb[0] == '\n' {
				_, _ = lr.r.ReadByte()
			}
			return string(bytes.TrimSpace(lr.buf.Bytes())), nil
		}

		if lr.buf.Len() >= lr.maxLine {
			return "", fmt.Errorf("line exceeds %d bytes", lr.maxLine)
		}
		lr.buf.WriteByte(b)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
