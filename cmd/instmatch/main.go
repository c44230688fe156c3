package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/logger"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/records"
	"github.com/baditaflorin/go_institution_matcher/pkg/matcher"
)

var Version = "0.1.0"

func main() {
	app := &cli.App{
		Name:                   "instmatch",
		Usage:                  "Reconcile institution names against a reference collection",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML file with thresholds and lookup tables",
				EnvVars: []string{"INSTMATCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "records",
				Aliases: []string{"r"},
				Usage:   "JSON array of reference records",
				EnvVars: []string{"INSTMATCH_RECORDS"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Write matcher logs to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "match",
				Aliases:   []string{"m"},
				Usage:     "Resolve one query",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "cascade-only",
						Usage: "Run the primary cascade on the raw query, skipping language separation",
					},
				},
				Action: matchCommand,
			},
			{
				Name:    "batch",
				Aliases: []string{"b"},
				Usage:   "Resolve every query found in the given files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "queries",
						Aliases:  []string{"q"},
						Usage:    "Query files or glob patterns (e.g., --queries 'input/**/*.txt'); .json files hold arrays",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Parallel workers (0 = GOMAXPROCS, 1 = sequential)",
						Value:   1,
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
				},
				Action: batchCommand,
			},
			{
				Name:      "stream",
				Aliases:   []string{"s"},
				Usage:     "Resolve one query per input line and write one JSON result per line",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Lines resolved together",
						Value: 256,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Parallel workers per batch (0 = GOMAXPROCS)",
					},
					&cli.BoolFlag{
						Name:  "keep-blank",
						Usage: "Emit a failed result for blank lines instead of skipping them",
					},
				},
				Action: streamCommand,
			},
			{
				Name:      "normalize",
				Aliases:   []string{"n"},
				Usage:     "Print the normalized form of each argument",
				ArgsUsage: "<text>...",
				Action:    normalizeCommand,
			},
			{
				Name:      "separate",
				Usage:     "Split each argument into its Chinese and English halves",
				ArgsUsage: "<text>...",
				Action:    separateCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newMatcher builds a matcher from the global flags.
func newMatcher(c *cli.Context, extra ...matcher.Option) (*matcher.Matcher, error) {
	opts := []matcher.Option{matcher.WithSilentLogging()}
	if c.Bool("verbose") {
		lg, err := logger.New(logger.Options{Output: os.Stderr})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		opts = []matcher.Option{matcher.WithPortsLogger(lg)}
	}
	if path := c.String("config"); path != "" {
		opts = append(opts, matcher.WithConfigFile(path))
	}
	opts = append(opts, extra...)
	return matcher.New(opts...)
}

func loadReference(c *cli.Context) ([]matcher.Record, error) {
	path := c.String("records")
	if path == "" {
		return nil, fmt.Errorf("--records is required")
	}
	return records.LoadFile(path)
}
