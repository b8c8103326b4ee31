package models

import "time"

// PostRecord confirms a post that was created on LinkedIn.
type PostRecord struct {
	Body           string    `json:"body"`
	Hashtags       []string  `json:"hashtags"`
	ExternalPostID string    `json:"external_post_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewPostRecord builds the record for a successfully published draft.
func NewPostRecord(draft Draft, externalID string, at time.Time) *PostRecord {
	return &PostRecord{
		Body:           draft.Body,
		Hashtags:       draft.Tags(),
		ExternalPostID: externalID,
		Timestamp:      at,
	}
}
