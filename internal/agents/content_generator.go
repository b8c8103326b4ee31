package agents

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shubh-37/linkedin-autoposter/internal/llm"
	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

const systemPrompt = `You are an experienced DevOps Engineer and Python Developer with deep expertise in cloud automation (AWS, Azure), CI/CD pipeline development (Jenkins, GitHub Actions, ArgoCD), Infrastructure-as-Code (Terraform, AWS CDK), Kubernetes (EKS, Helm), and system monitoring (Prometheus, ELK Stack).

Your goal is to write engaging, insightful, and technically accurate LinkedIn posts that share industry best practices, real-world challenges, useful tips, and personal achievements in DevOps and Cloud Engineering. Posts should be professional yet approachable, concise, and inspire discussions. Target an audience of developers, DevOps engineers, and cloud architects.`

const hashtagInstruction = `
Format your response as:
[post content, no hashtags in the body]

HASHTAGS: [2-3 hashtags relevant to the post, space separated]`

var topicPools = map[string][]string{
	"tools": {"Kubernetes", "Docker", "Terraform", "Ansible", "Jenkins",
		"GitLab CI", "GitHub Actions", "ArgoCD", "Prometheus", "Grafana"},
	"concepts": {"CI/CD", "Infrastructure as Code", "GitOps", "Service Mesh",
		"Observability", "Chaos Engineering", "SRE", "Platform Engineering"},
	"challenges": {"scaling", "monitoring", "security", "cost optimization",
		"deployment failures", "debugging", "performance tuning"},
	"trends": {"AI in DevOps", "FinOps", "Platform Engineering", "Green Computing",
		"Edge Computing", "Serverless", "WebAssembly"},
}

type promptTemplate struct {
	pool     string
	template string
}

var promptTemplates = map[models.ContentType]promptTemplate{
	models.ContentTechnicalTip: {pool: "tools", template: `Write a LinkedIn post about a useful %s tip or trick that DevOps engineers should know.
Requirements:
- Start with a hook that grabs attention
- Provide practical, actionable advice
- Include a brief code snippet or command if relevant
- Keep it under 300 words
- End with a question to encourage engagement
- Write in first person, conversational tone
Make it feel authentic and based on real experience.`},
	models.ContentProblemSolution: {pool: "challenges", template: `Write a LinkedIn post about solving a %s challenge in DevOps.
Requirements:
- Start with the problem statement
- Describe the impact of the problem
- Present your solution approach
- Share the outcome or results
- Keep it under 300 words
- Write in first person, sharing a real experience feel
- Include emoji where appropriate for readability`},
	models.ContentToolDiscovery: {pool: "tools", template: `Write a LinkedIn post about discovering something new in %s or a tool that works alongside it.
Requirements:
- Share excitement about the discovery
- Explain what the tool does
- Mention specific use cases
- Compare briefly with alternatives if relevant
- Keep it under 300 words
- Write enthusiastically but authentically`},
	models.ContentBestPractice: {pool: "concepts", template: `Write a LinkedIn post about a %s best practice.
Requirements:
- Share a specific best practice
- Explain why it matters
- Provide a real-world example
- Mention common mistakes to avoid
- Keep it under 300 words
- Write in an educational but not preachy tone`},
	models.ContentIndustryNews: {pool: "trends", template: `Write a LinkedIn post sharing thoughts on %s in the DevOps space.
Requirements:
- Start with an observation or recent development
- Share your perspective on why it matters
- Discuss potential impact on the industry
- Keep it under 300 words
- Write thoughtfully and forward-looking`},
	models.ContentPersonalInsight: {pool: "challenges", template: `Write a LinkedIn post sharing a personal insight or lesson learned as a DevOps engineer dealing with %s.
Requirements:
- Share a genuine learning moment
- Be vulnerable about mistakes or challenges
- Explain what you learned
- How it changed your approach
- Keep it under 300 words
- Write authentically and personally`},
}

var (
	baseHashtags = []string{"#DevOps", "#Python", "#AWS"}
	typeHashtags = map[models.ContentType][]string{
		models.ContentTechnicalTip:    {"#TechTips", "#DevOpsTools"},
		models.ContentProblemSolution: {"#ProblemSolving", "#Engineering"},
		models.ContentToolDiscovery:   {"#DevOpsTools", "#Technology"},
		models.ContentBestPractice:    {"#BestPractices", "#DevOpsLife"},
		models.ContentIndustryNews:    {"#TechNews", "#FutureOfTech"},
		models.ContentPersonalInsight: {"#CareerGrowth", "#LearningInPublic"},
	}
	hashtagPool = []string{
		"#DevOps", "#Python", "#CloudComputing", "#Kubernetes", "#Docker",
		"#CI/CD", "#InfrastructureAsCode", "#SRE", "#PlatformEngineering",
		"#TechTips", "#CloudNative", "#Automation", "#DevOpsLife", "#AWS",
	}
)

var hashtagMarker = regexp.MustCompile(`(?i)hashtags:`)

// ContentGeneratorAgent drafts posts through an LLM provider. It is safe for
// concurrent use.
type ContentGeneratorAgent struct {
	provider     llm.Provider
	mu           sync.Mutex // guards rng
	rng          *rand.Rand
	hashtagCount int
	now          func() time.Time
	log          logging.Logger
}

type GeneratorOption func(*ContentGeneratorAgent)

// WithRand makes content type, topic and hashtag picks reproducible.
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(a *ContentGeneratorAgent) { a.rng = rng }
}

func WithHashtagCount(n int) GeneratorOption {
	return func(a *ContentGeneratorAgent) {
		if n > 0 {
			a.hashtagCount = n
		}
	}
}

func WithGeneratorLogger(log logging.Logger) GeneratorOption {
	return func(a *ContentGeneratorAgent) { a.log = log }
}

func WithGeneratorClock(now func() time.Time) GeneratorOption {
	return func(a *ContentGeneratorAgent) { a.now = now }
}

func NewContentGeneratorAgent(provider llm.Provider, opts ...GeneratorOption) *ContentGeneratorAgent {
	a := &ContentGeneratorAgent{
		provider:     provider,
		rng:          rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		hashtagCount: 5,
		now:          time.Now,
		log:          logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate asks the LLM for one post. A non-empty topicHint replaces the
// topic drawn from the content type's pool. Every failure is returned as a
// *models.GenerationError.
func (a *ContentGeneratorAgent) Generate(ctx context.Context, topicHint string) (models.Draft, error) {
	a.mu.Lock()
	contentType := models.AllContentTypes[a.rng.IntN(len(models.AllContentTypes))]
	topic := strings.TrimSpace(topicHint)
	if topic == "" {
		topic = a.pickTopic(contentType)
	}
	a.mu.Unlock()
	prompt := BuildPrompt(contentType, topic)

	a.log.WithFields(logging.Fields{
		"content_type": contentType,
		"topic":        topic,
	}).Info("✍️ Generating post")

	responseText, err := a.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return models.Draft{}, &models.GenerationError{Err: err}
	}
	if strings.TrimSpace(responseText) == "" {
		return models.Draft{}, &models.GenerationError{Err: models.ErrEmptyContent}
	}

	body, hashtags, err := ParseDraft(responseText)
	if err != nil {
		a.log.WithError(err).Debugf("unparseable LLM output: %q", responseText)
		return models.Draft{}, &models.GenerationError{Err: err}
	}

	draft := models.NewDraft(body, a.curateHashtags(hashtags, contentType), prompt, contentType, topic)
	draft.GeneratedAt = a.now()

	a.log.WithFields(logging.Fields{
		"chars":    len([]rune(draft.Body)),
		"hashtags": strings.Join(draft.Hashtags, " "),
	}).Info("✅ Draft generated")

	return draft, nil
}

// pickTopic must be called with a.mu held.
func (a *ContentGeneratorAgent) pickTopic(contentType models.ContentType) string {
	pool := topicPools[promptTemplates[contentType].pool]
	return pool[a.rng.IntN(len(pool))]
}

// BuildPrompt renders the user prompt for a content type and topic.
func BuildPrompt(contentType models.ContentType, topic string) string {
	tmpl, ok := promptTemplates[contentType]
	if !ok {
		tmpl = promptTemplates[models.ContentTechnicalTip]
	}
	return fmt.Sprintf(tmpl.template, topic) + "\n" + hashtagInstruction
}

// ParseDraft splits raw LLM output into the post body and its hashtags.
// The hashtags come from the last "HASHTAGS:" line, or failing that from a
// trailing line made only of hashtags. Output with neither, or with an empty
// body, returns models.ErrMalformedOutput.
func ParseDraft(text string) (string, []string, error) {
	text = strings.TrimSpace(text)

	var body string
	var hashtags []string

	if locs := hashtagMarker.FindAllStringIndex(text, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		body = text[:last[0]]
		hashtags = extractHashtags(text[last[1]:])
	} else {
		lines := strings.Split(text, "\n")
		tail := strings.TrimSpace(lines[len(lines)-1])
		if isHashtagLine(tail) {
			body = strings.Join(lines[:len(lines)-1], "\n")
			hashtags = extractHashtags(tail)
		}
	}

	body = strings.TrimSpace(body)
	if body == "" || len(hashtags) == 0 {
		return "", nil, models.ErrMalformedOutput
	}
	return body, hashtags, nil
}

func isHashtagLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if !strings.HasPrefix(f, "#") || len(f) < 2 {
			return false
		}
	}
	return true
}

func extractHashtags(s string) []string {
	var tags []string
	for _, f := range strings.Fields(s) {
		f = strings.TrimRight(f, ",;.")
		if strings.HasPrefix(f, "#") && len(f) > 1 {
			tags = append(tags, f)
		}
	}
	return tags
}

// curateHashtags de-duplicates the model's hashtags and tops them up from the
// curated tags for the content type until there are hashtagCount of them.
func (a *ContentGeneratorAgent) curateHashtags(parsed []string, contentType models.ContentType) []string {
	selected := make([]string, 0, a.hashtagCount)
	seen := make(map[string]bool)
	add := func(tag string) {
		key := strings.ToLower(tag)
		if len(selected) >= a.hashtagCount || seen[key] {
			return
		}
		seen[key] = true
		selected = append(selected, tag)
	}

	for _, tag := range parsed {
		add(tag)
	}
	for _, tag := range baseHashtags {
		add(tag)
	}
	for _, tag := range typeHashtags[contentType] {
		add(tag)
	}
	a.mu.Lock()
	perm := a.rng.Perm(len(hashtagPool))
	a.mu.Unlock()
	for _, i := range perm {
		add(hashtagPool[i])
	}
	return selected
}
