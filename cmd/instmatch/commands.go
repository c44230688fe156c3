package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/records"
	"github.com/baditaflorin/go_institution_matcher/pkg/matcher"
)

func matchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("match requires a query argument")
	}

	m, err := newMatcher(c)
	if err != nil {
		return err
	}
	defer m.Close()

	recs, err := loadReference(c)
	if err != nil {
		return err
	}

	var res matcher.Annotated
	if c.Bool("cascade-only") {
		res = m.Annotate(m.MatchCascade(query, recs))
	} else {
		res = m.Match(query, recs)
	}

	if c.Bool("json") {
		return writeJSON(res)
	}
	printResult(query, res)
	return nil
}

func batchCommand(c *cli.Context) error {
	workers := c.Int("workers")
	m, err := newMatcher(c, matcher.WithWorkers(workers))
	if err != nil {
		return err
	}
	defer m.Close()

	recs, err := loadReference(c)
	if err != nil {
		return err
	}
	queries, err := records.LoadQueries(c.StringSlice("queries"), m.Fields())
	if err != nil {
		return err
	}

	var progress matcher.ProgressFunc
	if c.Bool("progress") {
		progress = func(f float64) {
			fmt.Fprintf(os.Stderr, "\rprogress: %5.1f%%", f*100)
			if f >= 1 {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	var items []matcher.BatchItem
	if workers == 1 {
		items = m.BatchMatch(queries, recs, progress)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		items, err = m.ParallelBatchMatch(ctx, queries, recs, progress)
		if err != nil {
			fmt.Fprintf(os.Stderr, "batch interrupted after %d of %d queries: %v\n", len(items), len(queries), err)
		}
	}

	summary := matcher.Summarize(items)
	if c.Bool("json") {
		return writeJSON(struct {
			Items   []matcher.BatchItem `json:"items"`
			Summary matcher.Summary     `json:"summary"`
		}{items, summary})
	}

	for _, it := range items {
		printResult(it.Query, it.Annotated)
	}
	printSummary(summary)
	return err
}

func streamCommand(c *cli.Context) error {
	m, err := newMatcher(c,
		matcher.WithWorkers(c.Int("workers")),
		matcher.WithStreamConfig(matcher.StreamConfig{
			BatchSize: c.Int("batch-size"),
			KeepBlank: c.Bool("keep-blank"),
		}),
	)
	if err != nil {
		return err
	}
	defer m.Close()

	recs, err := loadReference(c)
	if err != nil {
		return err
	}

	in := os.Stdin
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := m.StreamMatch(ctx, in, out, recs)
	if c.Bool("verbose") {
		fmt.Fprintf(os.Stderr, "%d lines, %d matched, %d bytes in %s\n",
			stats.Lines, stats.Matched, stats.BytesProcessed, stats.Duration)
	}
	return err
}

func normalizeCommand(c *cli.Context) error {
	m, err := newMatcher(c)
	if err != nil {
		return err
	}
	defer m.Close()

	for _, arg := range c.Args().Slice() {
		fmt.Println(m.Normalize(arg))
	}
	return nil
}

func separateCommand(c *cli.Context) error {
	m, err := newMatcher(c)
	if err != nil {
		return err
	}
	defer m.Close()

	out := make([]matcher.Halves, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		out = append(out, m.Separate(arg))
	}
	if c.Bool("json") {
		return writeJSON(out)
	}
	for _, h := range out {
		fmt.Printf("chinese: %q\tenglish: %q\n", h.Chinese, h.English)
	}
	return nil
}

func printResult(query string, res matcher.Annotated) {
	fmt.Printf("%s\n", query)
	if !res.Matched() {
		fmt.Printf("  %s (%s)\n", res.Quality.Status, res.Reason)
		return
	}
	path := string(res.Path)
	if path == "" {
		path = "-"
	}
	fmt.Printf("  -> record #%d  confidence %.3f  level %d  path %s\n", res.Index, res.Confidence, res.Level, path)
	fmt.Printf("  %s: %s\n", res.Quality.Status, res.Quality.Action)
}

func printSummary(s matcher.Summary) {
	fmt.Printf("\n%d queries, %d matched, %.1f%% auto-approved, mean confidence %.3f\n",
		s.Total, s.Matched, s.SuccessRate*100, s.MeanConfidence)

	statuses := make([]string, 0, len(s.ByStatus))
	for k := range s.ByStatus {
		statuses = append(statuses, k)
	}
	sort.Strings(statuses)
	for _, k := range statuses {
		fmt.Printf("  %-22s %d\n", k, s.ByStatus[k])
	}
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
