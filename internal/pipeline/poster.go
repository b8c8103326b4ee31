package pipeline

import (
	"context"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// Poster is the publishing side of the two-stage hand-off. It asks a remote
// generator for a reviewed draft and publishes it if the review approved it,
// and with WithLocalReview only if its own review agrees.
type Poster struct {
	invoker   GeneratorInvoker
	publisher Publisher
	creds     models.Credentials
	opts      options
	executor  failsafe.Executor[GenerateResponse]
}

func NewPoster(invoker GeneratorInvoker, publisher Publisher, creds models.Credentials, opts ...Option) *Poster {
	o := newOptions(opts)
	return &Poster{
		invoker:   invoker,
		publisher: publisher,
		creds:     creds,
		opts:      o,
		executor:  failsafe.With[GenerateResponse](timeout.New[GenerateResponse](o.timeout)),
	}
}

func (p *Poster) Run(ctx context.Context, topicHint string) (*Outcome, error) {
	out := p.opts.begin(models.ModeRemote, topicHint)

	if !p.opts.dryRun {
		if missing := p.creds.MissingForPublishing(); len(missing) > 0 {
			return p.opts.fail(ctx, out, &models.ConfigurationError{Missing: missing})
		}
	}

	out.enter(models.StateGenerating)
	resp, err := p.executor.WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[GenerateResponse]) (GenerateResponse, error) {
		return p.invoker.Invoke(exec.Context(), GenerateRequest{TopicHint: topicHint})
	})
	if err != nil {
		return p.opts.fail(ctx, out, asGenerationError(err))
	}
	if resp.Draft.Body == "" {
		return p.opts.fail(ctx, out, &models.GenerationError{Err: models.ErrEmptyContent})
	}

	out.enter(models.StateReviewing)
	p.opts.log.WithFields(logging.Fields{
		"run_id":           out.RunID,
		"generator_run_id": resp.RunID,
	}).Infof("🔍 Remote review: %s", resp.Review.Reason)

	review := resp.Review
	if p.opts.reviewer != nil && review.Approved {
		if local := p.opts.reviewer.Review(resp.Draft); !local.Approved {
			p.opts.log.WithField("run_id", out.RunID).Warnf("🚫 Local review overrides remote approval: %s", local.Reason)
			review = local
		}
	}

	return p.opts.publishIfApproved(ctx, out, resp.Draft, review, p.publisher, p.creds)
}
