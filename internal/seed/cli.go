package seed

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/presion/pkg/logger"
)

// ShowHelp prints usage information.
func ShowHelp() {
	fmt.Print(`presion seeder

Fills a running instance with synthetic blood-pressure readings through
POST /api/readings, then reads /api/readings and /api/summary back and
checks the daily averages.

USAGE:
    seed [OPTIONS]

OPTIONS:
    -url string        Base URL of the service (default: http://localhost:8080)
    -days int          Consecutive days to fill (default: 14)
    -per-day int       Readings per day (default: 2)
    -start string      First day as YYYY-MM-DD (default: days before today)
    -workers int       Concurrent submitters (default: 2)
    -timeout duration  HTTP request timeout (default: 30s)
    -output string     Save generated readings to this JSON file
    -log string        Also write logs to this file
    -verbose           Log every submission
    -help              Show this help

EXAMPLES:
    seed -days 30 -per-day 3
    seed -url http://localhost:9090 -start 2024-01-01 -output readings.json
`)
}

// SetupLogging routes logs to stdout and, when logFile is set, to that file.
// The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}
	if err := logger.InitWith(w, "text"); err != nil {
		return nil, err
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}
