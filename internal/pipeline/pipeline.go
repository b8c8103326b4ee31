package pipeline

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/metrics"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type Generator interface {
	Generate(ctx context.Context, topicHint string) (models.Draft, error)
}

type Reviewer interface {
	Review(draft models.Draft) models.ReviewResult
}

// Publisher posts a draft. It is only ever called with approved drafts.
type Publisher interface {
	Publish(ctx context.Context, draft models.Draft, creds models.Credentials) (*models.PostRecord, error)
}

// RunStore keeps the history of pipeline runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.RunRecord) error
}

// Notifier announces the result of a run.
type Notifier interface {
	Notify(ctx context.Context, run *models.RunRecord) error
}

// Outcome is what a single invocation ended with. Err is set only for FAILED.
type Outcome struct {
	RunID     string
	Mode      string
	State     models.RunState
	States    []models.RunState
	TopicHint string
	Draft     *models.Draft
	Review    *models.ReviewResult
	Post      *models.PostRecord
	Rejection *models.RejectedByReview
	DryRun    bool
	Err       error

	StartedAt  time.Time
	FinishedAt time.Time
}

func (o *Outcome) enter(state models.RunState) {
	o.State = state
	o.States = append(o.States, state)
}

// Record flattens the outcome into a history row.
func (o *Outcome) Record() *models.RunRecord {
	rec := &models.RunRecord{
		ID:         o.RunID,
		Mode:       o.Mode,
		State:      o.State,
		TopicHint:  o.TopicHint,
		Hashtags:   []string{},
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
	}
	if o.Draft != nil {
		rec.ContentType = o.Draft.ContentType
		rec.Body = o.Draft.Body
		rec.Hashtags = o.Draft.Tags()
	}
	if o.Review != nil {
		rec.Approved = o.Review.Approved
		rec.Reason = o.Review.Reason
	}
	if o.Post != nil {
		rec.ExternalPostID = o.Post.ExternalPostID
	}
	if o.Err != nil {
		rec.Error = o.Err.Error()
	}
	return rec
}

type options struct {
	store    RunStore
	notifier Notifier
	metrics  *metrics.Metrics
	log      logging.Logger
	now      func() time.Time
	dryRun   bool
	keyEnv   string
	timeout  time.Duration
	reviewer Reviewer
}

type Option func(*options)

func WithStore(store RunStore) Option {
	return func(o *options) { o.store = store }
}

func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(log logging.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDryRun stops every run after review; nothing is published.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithKeyEnv names the LLM key variable reported when the key is missing.
func WithKeyEnv(name string) Option {
	return func(o *options) { o.keyEnv = name }
}

// WithTimeout bounds the remote generator call made by Poster.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLocalReview makes Poster review the remote draft again before
// publishing. Both reviews must approve.
func WithLocalReview(r Reviewer) Option {
	return func(o *options) { o.reviewer = r }
}

func newOptions(opts []Option) options {
	o := options{
		log:     logging.NewNopLogger(),
		now:     time.Now,
		keyEnv:  "OPENAI_API_KEY",
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sideEffectTimeout bounds history writes and notifications after a run.
const sideEffectTimeout = 10 * time.Second

func (o *options) begin(mode, topicHint string) *Outcome {
	out := &Outcome{
		RunID:     ulid.Make().String(),
		Mode:      mode,
		TopicHint: topicHint,
		DryRun:    o.dryRun,
		StartedAt: o.now(),
	}
	out.enter(models.StateStart)
	return out
}

func (o *options) fail(ctx context.Context, out *Outcome, err error) (*Outcome, error) {
	out.Err = err
	out.enter(models.StateFailed)
	return o.finish(ctx, out)
}

// finish runs the side effects for a terminal outcome. Their failures are
// logged and never change the outcome.
func (o *options) finish(ctx context.Context, out *Outcome) (*Outcome, error) {
	out.FinishedAt = o.now()
	o.metrics.ObserveRun(out.Mode, out.State, out.FinishedAt.Sub(out.StartedAt))

	entry := o.log.WithFields(logging.Fields{
		"run_id": out.RunID,
		"mode":   out.Mode,
		"state":  out.State,
	})
	switch out.State {
	case models.StateDone:
		entry.Info("🎉 Run finished")
	case models.StateRejected:
		entry.WithField("reason", out.Rejection.Reason).Warn("🚫 Draft rejected by review")
	default:
		entry.WithError(out.Err).Error("❌ Run failed")
	}

	if o.store == nil && o.notifier == nil {
		return out, out.Err
	}

	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	rec := out.Record()
	if o.store != nil {
		if err := o.store.SaveRun(sideCtx, rec); err != nil {
			entry.WithError(err).Warn("⚠️ Failed to record run")
		}
	}
	if o.notifier != nil {
		if err := o.notifier.Notify(sideCtx, rec); err != nil {
			entry.WithError(err).Warn("⚠️ Failed to send notification")
		}
	}
	return out, out.Err
}

// publishIfApproved publishes an approved draft once, or ends the run as
// REJECTED without touching the publisher.
func (o *options) publishIfApproved(ctx context.Context, out *Outcome, draft models.Draft, review models.ReviewResult, publisher Publisher, creds models.Credentials) (*Outcome, error) {
	out.Draft = &draft
	out.Review = &review

	if !review.Approved {
		out.Rejection = &models.RejectedByReview{Reason: review.Reason, Review: review}
		out.enter(models.StateRejected)
		return o.finish(ctx, out)
	}

	if o.dryRun {
		o.log.WithField("run_id", out.RunID).Info("🧪 Dry run, skipping publish")
		out.enter(models.StateDone)
		return o.finish(ctx, out)
	}

	out.enter(models.StatePublishing)
	post, err := publisher.Publish(ctx, draft, creds)
	if err != nil {
		return o.fail(ctx, out, err)
	}
	out.Post = post
	out.enter(models.StateDone)
	return o.finish(ctx, out)
}
