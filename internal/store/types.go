package store

import "time"

// Run describes one completed mining run.
type Run struct {
	ID               string
	CreatedAt        time.Time
	Source           string // input file path
	MinSupport       float64
	MinConfidence    float64
	TransactionCount int
	LevelCount       int // size of the largest frequent itemsets
	Duration         time.Duration

	// Filled by ListRuns and GetRun.
	ItemsetCount int
	RuleCount    int
}
