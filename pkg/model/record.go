// Package model holds the data types shared between the parser, the flame
// graph generator and the dashboard's persistent store.
package model

import "time"

// Sample is one flattened call stack recovered from a folded-format
// document, ready for flame graph aggregation.
type Sample struct {
	// CallStack holds root-first frame labels, e.g. "main.worker (main.go:42)".
	CallStack []string
	// Value is the weight (occurrence count) folded onto this stack.
	Value int64
}

// ParseResult holds every sample recovered from one folded-format document.
type ParseResult struct {
	Samples      []*Sample
	TotalSamples int64
}

// ProfileRecord is the durable representation of one terminated sampling
// context, as stored by the dashboard's repository layer. The field names
// mirror the JSON payload shipped to a remote collector (pkg/repository).
type ProfileRecord struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SampleID      string    `json:"sample_id" gorm:"index;size:64"`
	Name          string    `json:"name" gorm:"index;size:255"`
	ProcessID     int       `json:"process_id"`
	ThreadID      uint64    `json:"thread_id"`
	Timestamp     time.Time `json:"timestamp" gorm:"index"`
	StackInfo     string    `json:"stack_info" gorm:"type:text"`
	ExecutionTime int64     `json:"execution_time"` // milliseconds
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides the default pluralized table name gorm would pick.
func (ProfileRecord) TableName() string {
	return "profile_records"
}
