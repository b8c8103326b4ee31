package agents

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// ReviewConfig holds the review thresholds. Zero or negative thresholds mean
// "use the default", so a minimum length of 0 cannot be configured.
type ReviewConfig struct {
	MinChars            int
	MaxChars            int
	MaxAvgSentenceWords float64
	BannedTerms         []string
}

// DefaultReviewConfig is 200 to 3000 characters and at most 25 words per sentence.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		MinChars:            200,
		MaxChars:            3000,
		MaxAvgSentenceWords: 25,
	}
}

var (
	technicalTerms = []string{"devops", "python", "cloud", "kubernetes", "docker", "ci/cd",
		"automation", "infrastructure", "deployment", "pipeline", "aws", "lambda"}
	callToActionPhrases = []string{"let me know", "what do you think", "share your", "comment below"}
)

// ReviewerAgent runs the quality checks. It holds no state beyond its
// configuration, so one instance can review any number of drafts.
type ReviewerAgent struct {
	cfg    ReviewConfig
	banned []string
}

// NewReviewerAgent fills unset thresholds from DefaultReviewConfig and
// lower-cases the banned terms.
func NewReviewerAgent(cfg ReviewConfig) *ReviewerAgent {
	def := DefaultReviewConfig()
	if cfg.MinChars <= 0 {
		cfg.MinChars = def.MinChars
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = def.MaxChars
	}
	if cfg.MaxAvgSentenceWords <= 0 {
		cfg.MaxAvgSentenceWords = def.MaxAvgSentenceWords
	}

	var banned []string
	for _, term := range cfg.BannedTerms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			banned = append(banned, term)
		}
	}
	return &ReviewerAgent{cfg: cfg, banned: banned}
}

// Review checks length, hashtags, banned terms and readability. The draft is
// approved only when all four pass.
func (r *ReviewerAgent) Review(draft models.Draft) models.ReviewResult {
	metrics := map[string]bool{
		models.CheckLength:      r.checkLength(draft.Body),
		models.CheckHashtags:    checkHashtags(draft.Hashtags),
		models.CheckBannedTerms: r.checkBannedTerms(draft.Text()),
		models.CheckReadability: averageSentenceWords(draft.Body) <= r.cfg.MaxAvgSentenceWords,
	}

	result := models.ReviewResult{
		Metrics: metrics,
		Scores: map[string]float64{
			"engagement": engagementScore(draft.Body),
			"technical":  technicalScore(draft.Body),
		},
	}
	if failed := result.Failed(); len(failed) > 0 {
		result.Reason = strings.Join(failed, ", ")
	} else {
		result.Approved = true
		result.Reason = "approved"
	}
	return result
}

func (r *ReviewerAgent) checkLength(body string) bool {
	n := utf8.RuneCountInString(body)
	return n >= r.cfg.MinChars && n <= r.cfg.MaxChars
}

func checkHashtags(tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") || utf8.RuneCountInString(tag) < 2 || strings.ContainsAny(tag, " \t\n") {
			return false
		}
	}
	return true
}

func (r *ReviewerAgent) checkBannedTerms(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range r.banned {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

// averageSentenceWords splits on sentence punctuation and line breaks, so
// bullet lists count as one sentence per line. Text with no words scores 0.
func averageSentenceWords(body string) float64 {
	sentences := strings.FieldsFunc(body, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	var count, words int
	for _, s := range sentences {
		if n := len(strings.Fields(s)); n > 0 {
			count++
			words += n
		}
	}
	if count == 0 {
		return 0
	}
	return float64(words) / float64(count)
}

func engagementScore(body string) float64 {
	lower := strings.ToLower(body)
	score := 0.3
	if strings.Contains(body, "?") {
		score += 0.3
	}
	for _, r := range body {
		if r > 127 {
			score += 0.2
			break
		}
	}
	for _, phrase := range callToActionPhrases {
		if strings.Contains(lower, phrase) {
			score += 0.2
			break
		}
	}
	return math.Round(math.Min(score, 1)*100) / 100
}

func technicalScore(body string) float64 {
	lower := strings.ToLower(body)
	count := 0
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	switch {
	case count == 0:
		return 0.2
	case count >= 3:
		return 1.0
	default:
		return 0.6
	}
}
