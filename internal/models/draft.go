package models

import (
	"strings"
	"time"
)

// ContentType is the kind of post the generator was asked to write.
type ContentType string

const (
	ContentTechnicalTip    ContentType = "technical_tip"
	ContentProblemSolution ContentType = "problem_solution"
	ContentToolDiscovery   ContentType = "tool_discovery"
	ContentBestPractice    ContentType = "best_practice"
	ContentIndustryNews    ContentType = "industry_news"
	ContentPersonalInsight ContentType = "personal_insight"
)

// AllContentTypes lists every content type in a stable order.
var AllContentTypes = []ContentType{
	ContentTechnicalTip,
	ContentProblemSolution,
	ContentToolDiscovery,
	ContentBestPractice,
	ContentIndustryNews,
	ContentPersonalInsight,
}

// Draft is generated post content that has not been reviewed yet.
// Drafts are passed by value and never mutated after NewDraft returns.
type Draft struct {
	Body         string      `json:"body"`
	Hashtags     []string    `json:"hashtags"`
	SourcePrompt string      `json:"source_prompt"`
	ContentType  ContentType `json:"content_type,omitempty"`
	Topic        string      `json:"topic,omitempty"`
	GeneratedAt  time.Time   `json:"generated_at"`
}

// NewDraft creates a draft, copying the hashtag slice so later changes by the
// caller can't leak into it.
func NewDraft(body string, hashtags []string, sourcePrompt string, contentType ContentType, topic string) Draft {
	return Draft{
		Body:         body,
		Hashtags:     append([]string(nil), hashtags...),
		SourcePrompt: sourcePrompt,
		ContentType:  contentType,
		Topic:        topic,
		GeneratedAt:  time.Now(),
	}
}

// Tags returns a copy of the draft's hashtags.
func (d Draft) Tags() []string {
	return append([]string(nil), d.Hashtags...)
}

// Text renders the post exactly as it is shared: body, blank line, hashtags.
func (d Draft) Text() string {
	if len(d.Hashtags) == 0 {
		return d.Body
	}
	return d.Body + "\n\n" + strings.Join(d.Hashtags, " ")
}
