package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Athletes   int           // Number of athletes to generate
	Decisions  int           // Number of decision log entries to generate
	Clubs      int           // Number of clubs to generate
	Seed       uint64        // Random seed; equal seeds produce equal data and idempotency keys
	Season     int           // Reference year for birth dates and height samples
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON dump of the generated dataset
	Verbose    bool          // Log every failed submission
}

// Item pairs a record with the Idempotency-Key it is submitted under.
type Item[T any] struct {
	Key    string `json:"key"`
	Record T      `json:"record"`
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Submitted int
	Created   int
	Replayed  int
	Failed    int
	Checks    int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

func (s *Stats) add(o outcome) {
	s.Submitted++
	switch o {
	case outcomeCreated:
		s.Created++
	case outcomeReplayed:
		s.Replayed++
	default:
		s.Failed++
	}
}
