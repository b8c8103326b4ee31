package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shubh-37/linkedin-autoposter/config"
	"github.com/shubh-37/linkedin-autoposter/internal/agents"
	"github.com/shubh-37/linkedin-autoposter/internal/database"
	"github.com/shubh-37/linkedin-autoposter/internal/linkedin"
	"github.com/shubh-37/linkedin-autoposter/internal/llm"
	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/metrics"
	"github.com/shubh-37/linkedin-autoposter/internal/notify"
	"github.com/shubh-37/linkedin-autoposter/internal/pipeline"
	slackclient "github.com/shubh-37/linkedin-autoposter/internal/slack"
)

// Deps are the long-lived collaborators shared by every entry point.
// Store and Notifier are nil when not configured.
type Deps struct {
	Config   *config.Config
	Log      logging.Logger
	Metrics  *metrics.Metrics
	Store    database.Store
	Notifier pipeline.Notifier
}

// New builds the optional collaborators from cfg. A store or notifier that
// is configured but cannot be reached is an error.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*Deps, error) {
	d := &Deps{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New(prometheus.NewRegistry()),
	}

	store, err := database.Open(ctx, cfg.Store.DatabaseURL, cfg.Store.SQLitePath, log)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Debug("no history store configured")
	case err != nil:
		return nil, fmt.Errorf("failed to open history store: %w", err)
	default:
		d.Store = store
	}

	n, err := newNotifier(ctx, cfg, log)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.Notifier = n

	return d, nil
}

func newNotifier(ctx context.Context, cfg *config.Config, log logging.Logger) (pipeline.Notifier, error) {
	var multi notify.Multi

	if cfg.Notify.SNSTopic != "" {
		sns, err := notify.NewSNSNotifierFromEnv(ctx, cfg.Remote.Region, cfg.Notify.SNSTopic)
		if err != nil {
			return nil, err
		}
		multi = append(multi, sns)
		log.Debug("SNS notifications enabled")
	}

	if cfg.Notify.SlackToken != "" && cfg.Notify.SlackChannel != "" {
		client, err := slackclient.NewClient(ctx, cfg.Notify.SlackToken)
		if err != nil {
			return nil, err
		}
		multi = append(multi, notify.NewSlackNotifier(client, cfg.Notify.SlackChannel))
		log.WithField("bot_id", client.GetBotID()).Debug("Slack notifications enabled")
	}

	if len(multi) == 0 {
		return nil, nil
	}
	return multi, nil
}

func (d *Deps) Close() {
	if d.Store != nil {
		_ = d.Store.Close()
	}
}

// Options are the pipeline options every mode shares.
func (d *Deps) Options(extra ...pipeline.Option) []pipeline.Option {
	return d.options(true, extra)
}

func (d *Deps) options(withNotifier bool, extra []pipeline.Option) []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithLogger(d.Log),
		pipeline.WithMetrics(d.Metrics),
		pipeline.WithKeyEnv(d.Config.LLM.KeyEnv()),
		pipeline.WithTimeout(d.Config.Remote.Timeout),
	}
	if d.Store != nil {
		opts = append(opts, pipeline.WithStore(d.Store))
	}
	if withNotifier && d.Notifier != nil {
		opts = append(opts, pipeline.WithNotifier(d.Notifier))
	}
	return append(opts, extra...)
}

// Generator builds the LLM-backed content generator.
func (d *Deps) Generator() (*agents.ContentGeneratorAgent, error) {
	c := d.Config
	provider, err := llm.NewProvider(llm.Config{
		Provider:    c.LLM.Provider,
		Model:       c.LLM.Model,
		APIKey:      c.Credentials.APIKey,
		APIURL:      c.LLM.APIURL,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
		Timeout:     c.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return agents.NewContentGeneratorAgent(provider,
		agents.WithHashtagCount(c.LLM.HashtagCount),
		agents.WithGeneratorLogger(d.Log),
	), nil
}

func (d *Deps) Reviewer() *agents.ReviewerAgent {
	r := d.Config.Review
	return agents.NewReviewerAgent(agents.ReviewConfig{
		MinChars:            r.MinChars,
		MaxChars:            r.MaxChars,
		MaxAvgSentenceWords: r.MaxAvgSentenceWords,
		BannedTerms:         r.BannedTerms,
	})
}

func (d *Deps) Publisher() *linkedin.Client {
	return linkedin.NewClient(linkedin.Config{
		APIURL:  d.Config.LinkedIn.APIURL,
		Timeout: d.Config.LinkedIn.Timeout,
		Logger:  d.Log,
	})
}

// Invoker reaches the remote generator over HTTP when GENERATOR_URL is set,
// otherwise through the Lambda Invoke API.
func (d *Deps) Invoker(ctx context.Context) (pipeline.GeneratorInvoker, error) {
	r := d.Config.Remote
	if r.GeneratorURL != "" {
		return pipeline.NewHTTPInvoker(r.GeneratorURL), nil
	}
	return pipeline.NewLambdaInvokerFromEnv(ctx, r.Region, r.GeneratorFunction)
}

// Orchestrator builds the local generate, review, publish pipeline.
func (d *Deps) Orchestrator(extra ...pipeline.Option) (*pipeline.Orchestrator, error) {
	gen, err := d.Generator()
	if err != nil {
		return nil, err
	}
	return pipeline.NewOrchestrator(gen, d.Reviewer(), d.Publisher(), d.Config.Credentials, d.Options(extra...)...), nil
}

// GeneratorFunction builds the generator side of the remote hand-off. It
// never notifies; the poster reports the final outcome.
func (d *Deps) GeneratorFunction(extra ...pipeline.Option) (*pipeline.GeneratorFunction, error) {
	gen, err := d.Generator()
	if err != nil {
		return nil, err
	}
	return pipeline.NewGeneratorFunction(gen, d.Reviewer(), d.options(false, extra)...), nil
}

// Poster builds the publishing side of the remote hand-off.
func (d *Deps) Poster(ctx context.Context, extra ...pipeline.Option) (*pipeline.Poster, error) {
	invoker, err := d.Invoker(ctx)
	if err != nil {
		return nil, err
	}
	extra = append([]pipeline.Option{pipeline.WithLocalReview(d.Reviewer())}, extra...)
	return pipeline.NewPoster(invoker, d.Publisher(), d.Config.Credentials, d.Options(extra...)...), nil
}
