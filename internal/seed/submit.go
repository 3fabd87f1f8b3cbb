package seed

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/presion/pkg/logger"
)

type submitResult int

const (
	resultSuccess submitResult = iota
	resultRejected
	resultFailed
)

const progressInterval = time.Second

// tally counts accepted readings per date so the summary can be checked.
type tally struct {
	mu     sync.Mutex
	counts map[string]int // YYYY-MM-DD -> accepted readings
	sums   map[string][3]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int), sums: make(map[string][3]int)}
}

func (t *tally) add(r Reading) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[r.Date]++
	s := t.sums[r.Date]
	s[0] += r.Systolic
	s[1] += r.Diastolic
	s[2] += r.Pulse
	t.sums[r.Date] = s
}

// submitReadings posts readings through a pool of workers.
func submitReadings(ctx context.Context, cfg *Config, readings []Reading, stats *Stats) *tally {
	log := logger.Get()
	log.Info(ctx, "submitting readings",
		logger.Int("readings", len(readings)),
		logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/api/readings"
	accepted := newTally()

	var (
		submitted  int64
		successful int64
		rejected   int64
		failed     int64
		lastReport atomic.Int64
	)

	workers := max(cfg.Workers, 1)
	readingChan := make(chan Reading, workers*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for reading := range readingChan {
				if ctx.Err() != nil {
					return
				}
				result := submitSingle(ctx, client, url, reading)

				atomic.AddInt64(&submitted, 1)
				switch result {
				case resultSuccess:
					atomic.AddInt64(&successful, 1)
					accepted.add(reading)
				case resultRejected:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if cfg.Verbose {
					log.Debug(ctx, "reading submitted",
						logger.String("date", reading.Date),
						logger.Int("result", int(result)))
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", len(readings)),
						logger.Int("successful", int(atomic.LoadInt64(&successful))),
						logger.Int("failed", int(atomic.LoadInt64(&failed))))
				}
			}
		}()
	}

	go func() {
		defer close(readingChan)
		for _, r := range readings {
			select {
			case <-ctx.Done():
				return
			case readingChan <- r:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Rejected = int(atomic.LoadInt64(&rejected))
	stats.Failed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
	return accepted
}

func submitSingle(ctx context.Context, client *httpClient, url string, r Reading) submitResult {
	status, _, err := client.postJSON(ctx, url, r)
	switch {
	case err != nil:
		return resultFailed
	case status == http.StatusCreated:
		return resultSuccess
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return resultRejected
	default:
		return resultFailed
	}
}
