package domain

import "time"

// AnalysisEvent captures metadata about one completed analysis run.
type AnalysisEvent struct {
	Timestamp       time.Time    `json:"timestamp"`
	TraceID         string       `json:"trace_id"`
	Tool            string       `json:"tool"`
	Version         string       `json:"version"`
	Framework       Framework    `json:"framework"`
	SourceMethod    SourceMethod `json:"source_method"`
	SubcommandCount int          `json:"subcommand_count"`
	CacheHit        bool         `json:"cache_hit"`
	DurationMS      int64        `json:"duration_ms"`
}
