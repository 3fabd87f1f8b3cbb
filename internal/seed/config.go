package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Days       int           // Number of consecutive days to fill
	PerDay     int           // Readings per day
	Start      time.Time     // First day
	Workers    int           // Concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Where generated readings are saved; empty skips saving
	Verbose    bool          // Log every submission
}

// Reading is one generated submission, shaped like the POST /api/readings body.
type Reading struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Pulse     int    `json:"pulse"`
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Rejected   int // 4xx answers
	Failed     int // transport errors and 5xx answers
	DaysServed int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
