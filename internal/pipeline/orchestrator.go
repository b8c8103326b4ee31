package pipeline

import (
	"context"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// Orchestrator runs generate, review and publish in-process.
type Orchestrator struct {
	generator Generator
	reviewer  Reviewer
	publisher Publisher
	creds     models.Credentials
	opts      options
}

func NewOrchestrator(generator Generator, reviewer Reviewer, publisher Publisher, creds models.Credentials, opts ...Option) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		reviewer:  reviewer,
		publisher: publisher,
		creds:     creds,
		opts:      newOptions(opts),
	}
}

// Run performs one full cycle. A rejected draft is a normal outcome: the
// returned error is nil and Outcome.Rejection is set. Missing credentials
// fail the run before any network call.
func (o *Orchestrator) Run(ctx context.Context, topicHint string) (*Outcome, error) {
	out := o.opts.begin(models.ModeLocal, topicHint)

	missing := o.creds.MissingForGeneration(o.opts.keyEnv)
	if !o.opts.dryRun {
		missing = append(missing, o.creds.MissingForPublishing()...)
	}
	if len(missing) > 0 {
		return o.opts.fail(ctx, out, &models.ConfigurationError{Missing: missing})
	}

	out.enter(models.StateGenerating)
	draft, err := o.generator.Generate(ctx, topicHint)
	if err != nil {
		return o.opts.fail(ctx, out, err)
	}

	out.enter(models.StateReviewing)
	review := o.reviewer.Review(draft)
	o.opts.log.WithField("run_id", out.RunID).Infof("🔍 Review: %s", review.Reason)

	return o.opts.publishIfApproved(ctx, out, draft, review, o.publisher, o.creds)
}
