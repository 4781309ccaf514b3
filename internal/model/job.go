package model

import "time"

// JobStatus represents the state of a fallback enrichment job. A job is
// terminal once it leaves processing.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// EnrichmentJob tracks one fallback enrichment through the Job Registry.
// Jobs live only for the process's lifetime; they are never persisted.
type EnrichmentJob struct {
	ID             string     `json:"id"`
	Status         JobStatus  `json:"status"`
	PersonName     string     `json:"personName"`
	CompanyName    string     `json:"companyName"`
	OriginalSource Source     `json:"originalSource"`
	Email          string     `json:"email,omitempty"`
	Error          string     `json:"error,omitempty"`
	StartTime      time.Time  `json:"startTime"`
	CompletedTime  *time.Time `json:"completedTime,omitempty"`
	FailedTime     *time.Time `json:"failedTime,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (j *EnrichmentJob) Terminal() bool {
	return j.Status != JobStatusProcessing
}
