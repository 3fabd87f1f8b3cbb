// Package seed fills a running instance with synthetic readings through its
// JSON API and checks the daily averages it reports back.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/presion/internal/domain/types"
	"github.com/okian/presion/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o640
)

// ErrUnhealthy is returned when the service does not answer its health check.
var ErrUnhealthy = errors.New("service unhealthy")

// snapshot is what the service reports at one moment.
type snapshot struct {
	readings []types.Reading
	summary  []types.DailyPoint
}

// Run executes a complete seeding run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("days", cfg.Days),
		logger.Int("perDay", cfg.PerDay),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, cfg.BaseURL); err != nil {
		return stats, err
	}

	// Step 2: Record what is already stored
	before, err := fetchSnapshot(ctx, client, cfg.BaseURL)
	if err != nil {
		return stats, fmt.Errorf("baseline fetch failed: %w", err)
	}

	// Step 3: Generate readings
	readings := Generate(cfg)
	stats.Generated = len(readings)
	log.Info(ctx, "readings generated", logger.Int("count", stats.Generated))

	// Step 4: Submit readings concurrently
	accepted := submitReadings(ctx, cfg, readings, stats)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("submission interrupted: %w", err)
	}

	// Step 5: Read back and verify
	after, err := fetchSnapshot(ctx, client, cfg.BaseURL)
	if err != nil {
		return stats, fmt.Errorf("result fetch failed: %w", err)
	}
	stats.DaysServed = len(after.summary)

	if err := verifySummary(after.readings, after.summary); err != nil {
		return stats, err
	}
	if err := verifyAccepted(before.summary, after.summary, accepted); err != nil {
		return stats, err
	}
	log.Info(ctx, "summary verified", logger.Int("days", stats.DaysServed))

	// Step 6: Save readings to file
	if cfg.OutputFile != "" {
		if err := saveReadings(cfg.OutputFile, readings); err != nil {
			log.Warn(ctx, "failed to save readings to file", logger.Error(err))
		} else {
			log.Info(ctx, "readings saved to file", logger.String("filename", cfg.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient, baseURL string) error {
	logger.Get().Info(ctx, "checking service health")

	status, _, err := client.get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	// any 200 counts; the body is the metrics exposition
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

func fetchSnapshot(ctx context.Context, client *httpClient, baseURL string) (snapshot, error) {
	var s snapshot
	if err := client.getJSON(ctx, baseURL+"/api/readings", &s.readings); err != nil {
		return s, err
	}
	if err := client.getJSON(ctx, baseURL+"/api/summary", &s.summary); err != nil {
		return s, err
	}
	return s, nil
}

// saveReadings writes the generated readings as a JSON array.
func saveReadings(filename string, readings []Reading) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(readings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal readings: %w", err)
	}
	return os.WriteFile(filename, append(data, '\n'), filePermission)
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * 100
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("daysServed", stats.DaysServed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("readingsPerSecond", perSecond))
}
