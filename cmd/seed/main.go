package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/presion/internal/seed"
	"github.com/okian/presion/pkg/logger"
)

// Default configuration constants.
const (
	defaultDays       = 14
	defaultPerDay     = 2
	defaultWorkers    = 2 // the sheet's write quota is small
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		days       = flag.Int("days", defaultDays, "Consecutive days to fill")
		perDay     = flag.Int("per-day", defaultPerDay, "Readings per day")
		start      = flag.String("start", "", "First day as YYYY-MM-DD (default: days before today)")
		workers    = flag.Int("workers", defaultWorkers, "Concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Save generated readings to this JSON file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Log every submission")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	closer, err := seed.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	var first time.Time
	if *start != "" {
		first, err = time.Parse(time.DateOnly, *start)
		if err != nil {
			os.Stderr.WriteString("invalid -start: " + err.Error() + "\n")
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:    *baseURL,
		Days:       *days,
		PerDay:     *perDay,
		Start:      first,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := seed.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seed run failed", logger.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}
