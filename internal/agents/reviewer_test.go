package agents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

const goodBody = "Last week our Kubernetes deployment pipeline failed at 2 AM. " +
	"The culprit was a missing resource limit on a sidecar container. " +
	"We added limits to every manifest and wired a policy check into CI/CD. " +
	"Now bad manifests never reach the cluster. " +
	"Small guardrails beat heroic debugging sessions every time. " +
	"What guardrails have saved your team from a late night page?"

func draftWith(body string, tags ...string) models.Draft {
	return models.NewDraft(body, tags, "prompt", models.ContentTechnicalTip, "Kubernetes")
}

func TestReviewApprovesGoodDraft(t *testing.T) {
	r := NewReviewerAgent(DefaultReviewConfig())
	result := r.Review(draftWith(goodBody, "#DevOps", "#Kubernetes", "#SRE"))

	assert.True(t, result.Approved)
	assert.Equal(t, "approved", result.Reason)
	assert.Equal(t, map[string]bool{
		models.CheckLength:      true,
		models.CheckHashtags:    true,
		models.CheckBannedTerms: true,
		models.CheckReadability: true,
	}, result.Metrics)
	assert.Empty(t, result.Failed())
}

func TestReviewRejectsShortBody(t *testing.T) {
	r := NewReviewerAgent(DefaultReviewConfig())
	result := r.Review(draftWith("Too short.", "#DevOps"))

	assert.False(t, result.Approved)
	assert.False(t, result.Metrics[models.CheckLength])
	assert.Equal(t, "length", result.Reason)
}

func TestReviewRejectsLongBody(t *testing.T) {
	r := NewReviewerAgent(ReviewConfig{MaxChars: 100})
	result := r.Review(draftWith(goodBody, "#DevOps"))

	assert.False(t, result.Approved)
	assert.Equal(t, "length", result.Reason)
}

func TestReviewRejectsMissingHashtags(t *testing.T) {
	r := NewReviewerAgent(DefaultReviewConfig())

	result := r.Review(draftWith(goodBody))
	assert.False(t, result.Approved)
	assert.Equal(t, "hashtags", result.Reason)

	result = r.Review(draftWith(goodBody, "#DevOps", "AWS"))
	assert.False(t, result.Approved)
	assert.False(t, result.Metrics[models.CheckHashtags])

	result = r.Review(draftWith(goodBody, "#"))
	assert.False(t, result.Metrics[models.CheckHashtags])
}

func TestReviewBannedTermsCaseInsensitive(t *testing.T) {
	r := NewReviewerAgent(ReviewConfig{BannedTerms: []string{"  Guaranteed ", "synergy"}})

	result := r.Review(draftWith(goodBody+" Results GUARANTEED.", "#DevOps"))
	assert.False(t, result.Approved)
	assert.Equal(t, "banned_terms", result.Reason)

	result = r.Review(draftWith(goodBody, "#DevOps", "#Synergy"))
	assert.False(t, result.Metrics[models.CheckBannedTerms])
}

func TestReviewReadability(t *testing.T) {
	r := NewReviewerAgent(DefaultReviewConfig())
	runOn := strings.Repeat("and then we deployed again ", 40)

	result := r.Review(draftWith(runOn, "#DevOps"))
	assert.False(t, result.Approved)
	assert.Equal(t, "readability", result.Reason)
}

func TestReviewReasonListsFailuresInOrder(t *testing.T) {
	r := NewReviewerAgent(ReviewConfig{BannedTerms: []string{"short"}})
	result := r.Review(draftWith("Too short."))

	assert.Equal(t, "length, hashtags, banned_terms", result.Reason)
	assert.Equal(t, []string{"length", "hashtags", "banned_terms"}, result.Failed())
}

func TestReviewIsDeterministic(t *testing.T) {
	r := NewReviewerAgent(DefaultReviewConfig())
	for _, d := range []models.Draft{
		draftWith(goodBody, "#DevOps"),
		draftWith("Too short."),
		draftWith(strings.Repeat("word ", 300), "#A"),
	} {
		assert.Equal(t, r.Review(d), r.Review(d))
	}
}

func TestReviewScores(t *testing.T) {
	r := NewReviewerAgent(DefaultReviewConfig())

	result := r.Review(draftWith(goodBody+" Let me know 🚀", "#DevOps"))
	assert.Equal(t, 1.0, result.Scores["engagement"])
	assert.Equal(t, 1.0, result.Scores["technical"])

	result = r.Review(draftWith("Plain words only here", "#A"))
	assert.Equal(t, 0.3, result.Scores["engagement"])
	assert.Equal(t, 0.2, result.Scores["technical"])
}

func TestAverageSentenceWords(t *testing.T) {
	assert.Equal(t, 0.0, averageSentenceWords(""))
	assert.Equal(t, 2.0, averageSentenceWords("One two. Three four!\nFive six?"))
	assert.Equal(t, 3.0, averageSentenceWords("one two three\nfour five six"))
}

func TestNewReviewerAgentDefaultsUnsetThresholds(t *testing.T) {
	r := NewReviewerAgent(ReviewConfig{MinChars: 0, MaxChars: -1})
	assert.Equal(t, DefaultReviewConfig(), r.cfg)

	r = NewReviewerAgent(ReviewConfig{MinChars: 10, MaxChars: 20, MaxAvgSentenceWords: 5})
	assert.Equal(t, 10, r.cfg.MinChars)
	assert.Equal(t, 20, r.cfg.MaxChars)
	assert.Equal(t, 5.0, r.cfg.MaxAvgSentenceWords)
}
