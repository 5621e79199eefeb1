package seed

import (
	"fmt"
	"io"
	"os"

	"github.com/courtevo/vero/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging sends logs to stdout and, when logFile is set, to that file too.
func SetupLogging(logFile, format string) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWithWriter(w, format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`vero-seed
=========

Fills a running vero service with a demo roster, decision log and clubs,
then checks every dashboard report against the records it serves.

Usage:
  go run ./cmd/vero-seed [options]

Options:
  -url string         Base URL of the service (default "http://localhost:9080")
  -athletes int       Athletes to generate (default 120)
  -decisions int      Decision log entries to generate (default 24)
  -clubs int          Clubs to generate (default 6)
  -seed uint          Random seed; rerunning with the same seed replays instead of duplicating (default 1)
  -season int         Reference year for birth dates and height samples (default current year)
  -workers int        Concurrent submitters (default CPU cores)
  -timeout duration   HTTP request timeout (default 10s)
  -output string      Write the generated dataset as JSON
  -log string         Also write logs to this file
  -verbose            Log every failed submission
  -help               Show this help message
`)
}
