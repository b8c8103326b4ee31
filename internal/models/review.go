package models

// Review check names, in the order they are evaluated and reported.
const (
	CheckLength      = "length"
	CheckHashtags    = "hashtags"
	CheckBannedTerms = "banned_terms"
	CheckReadability = "readability"
)

// ReviewResult is the outcome of the deterministic quality checks on a Draft.
type ReviewResult struct {
	Approved bool            `json:"approved"`
	Reason   string          `json:"reason"`
	Metrics  map[string]bool `json:"metrics"`
	// Scores are informational and never affect Approved.
	Scores map[string]float64 `json:"scores,omitempty"`
}

// Failed returns the names of failing checks in evaluation order.
func (r ReviewResult) Failed() []string {
	var failed []string
	for _, name := range []string{CheckLength, CheckHashtags, CheckBannedTerms, CheckReadability} {
		if passed, ok := r.Metrics[name]; ok && !passed {
			failed = append(failed, name)
		}
	}
	return failed
}
