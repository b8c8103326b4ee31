package models

import "time"

// RunState is a step of a single pipeline invocation.
type RunState string

const (
	StateStart      RunState = "START"
	StateGenerating RunState = "GENERATING"
	StateReviewing  RunState = "REVIEWING"
	StatePublishing RunState = "PUBLISHING"
	StateDone       RunState = "DONE"
	StateRejected   RunState = "REJECTED"
	StateFailed     RunState = "FAILED"
)

// Terminal reports whether no further transition can happen from s.
func (s RunState) Terminal() bool {
	return s == StateDone || s == StateRejected || s == StateFailed
}

// Run modes recorded in history.
const (
	ModeLocal    = "local"
	ModeRemote   = "remote"
	ModeGenerate = "generate"
)

// RunRecord is the history row written for each pipeline invocation.
type RunRecord struct {
	ID             string      `json:"id"`
	Mode           string      `json:"mode"`
	State          RunState    `json:"state"`
	TopicHint      string      `json:"topic_hint,omitempty"`
	ContentType    ContentType `json:"content_type,omitempty"`
	Body           string      `json:"body,omitempty"`
	Hashtags       []string    `json:"hashtags"`
	Approved       bool        `json:"approved"`
	Reason         string      `json:"reason,omitempty"`
	ExternalPostID string      `json:"external_post_id,omitempty"`
	Error          string      `json:"error,omitempty"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
}
