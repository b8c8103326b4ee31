package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// GenerateRequest is the input of the remote generator.
type GenerateRequest struct {
	TopicHint string `json:"topic_hint,omitempty"`
}

// GenerateResponse carries the generated draft and the generator side review.
type GenerateResponse struct {
	RunID  string              `json:"run_id,omitempty"`
	Draft  models.Draft        `json:"draft"`
	Review models.ReviewResult `json:"review"`
}

// GeneratorInvoker calls a separately deployed generator and waits for it.
type GeneratorInvoker interface {
	Invoke(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// GeneratorFunction is the generator side of the two-stage hand-off: it
// generates and reviews but never publishes.
type GeneratorFunction struct {
	generator Generator
	reviewer  Reviewer
	opts      options
}

func NewGeneratorFunction(generator Generator, reviewer Reviewer, opts ...Option) *GeneratorFunction {
	return &GeneratorFunction{
		generator: generator,
		reviewer:  reviewer,
		opts:      newOptions(opts),
	}
}

// Handle returns the draft with its review whether or not it was approved.
// Only a generation failure is an error.
func (f *GeneratorFunction) Handle(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	out := f.opts.begin(models.ModeGenerate, req.TopicHint)

	out.enter(models.StateGenerating)
	draft, err := f.generator.Generate(ctx, req.TopicHint)
	if err != nil {
		_, err = f.opts.fail(ctx, out, err)
		return GenerateResponse{}, err
	}

	out.enter(models.StateReviewing)
	review := f.reviewer.Review(draft)
	out.Draft = &draft
	out.Review = &review
	if review.Approved {
		out.enter(models.StateDone)
	} else {
		out.Rejection = &models.RejectedByReview{Reason: review.Reason, Review: review}
		out.enter(models.StateRejected)
	}
	f.opts.finish(ctx, out)

	return GenerateResponse{RunID: out.RunID, Draft: draft, Review: review}, nil
}

// asGenerationError keeps typed generation errors and wraps anything else
// coming back from the remote side.
func asGenerationError(err error) error {
	var genErr *models.GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &models.GenerationError{Err: fmt.Errorf("remote generator: %w", err)}
}
