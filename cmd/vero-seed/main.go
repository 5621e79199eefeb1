package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/courtevo/vero/internal/seed"
)

const (
	defaultAthletes  = 120
	defaultDecisions = 24
	defaultClubs     = 6
	defaultTimeout   = 10 * time.Second
	runTimeout       = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		athletes   = flag.Int("athletes", defaultAthletes, "Athletes to generate")
		decisions  = flag.Int("decisions", defaultDecisions, "Decision log entries to generate")
		clubs      = flag.Int("clubs", defaultClubs, "Clubs to generate")
		seedValue  = flag.Uint64("seed", 1, "Random seed")
		season     = flag.Int("season", time.Now().Year(), "Reference year")
		workers    = flag.Int("workers", runtime.NumCPU(), "Concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the generated dataset as JSON")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Log every failed submission")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := seed.SetupLogging(*logFile, "text"); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:    *baseURL,
		Athletes:   *athletes,
		Decisions:  *decisions,
		Clubs:      *clubs,
		Seed:       *seedValue,
		Season:     *season,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}
	if _, err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
