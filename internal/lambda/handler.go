package lambda

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/pipeline"
)

type generatorFunction interface {
	Handle(ctx context.Context, req pipeline.GenerateRequest) (pipeline.GenerateResponse, error)
}

type posterRunner interface {
	Run(ctx context.Context, topicHint string) (*pipeline.Outcome, error)
}

// GeneratorHandler serves the generator function. Scheduled events carry no
// topic_hint and decode to an empty request.
type GeneratorHandler struct {
	fn  generatorFunction
	log logging.Logger
}

func NewGeneratorHandler(fn generatorFunction, log logging.Logger) *GeneratorHandler {
	return &GeneratorHandler{fn: fn, log: log}
}

func (h *GeneratorHandler) Handle(ctx context.Context, req pipeline.GenerateRequest) (pipeline.GenerateResponse, error) {
	withRequestID(ctx, h.log).WithField("topic_hint", req.TopicHint).Info("📥 Generate request received")
	return h.fn.Handle(ctx, req)
}

// PosterEvent is the poster's input. Any other fields in the triggering
// event are ignored.
type PosterEvent struct {
	TopicHint string `json:"topic_hint,omitempty"`
}

// PosterResponse mirrors an API Gateway style result so the function can sit
// behind a URL or a schedule alike.
type PosterResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type posterBody struct {
	Message string `json:"message"`
	RunID   string `json:"run_id"`
	State   string `json:"state"`
	PostID  string `json:"post_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type PosterHandler struct {
	poster posterRunner
	log    logging.Logger
}

func NewPosterHandler(poster posterRunner, log logging.Logger) *PosterHandler {
	return &PosterHandler{poster: poster, log: log}
}

// Handle runs one remote cycle. Failures are returned as errors so the
// invocation is marked failed; a rejection is a normal 200 result.
func (h *PosterHandler) Handle(ctx context.Context, event PosterEvent) (PosterResponse, error) {
	withRequestID(ctx, h.log).WithField("topic_hint", event.TopicHint).Info("📥 Poster invoked")

	out, err := h.poster.Run(ctx, event.TopicHint)
	if err != nil {
		return PosterResponse{}, err
	}

	body := posterBody{RunID: out.RunID, State: string(out.State)}
	switch {
	case out.Rejection != nil:
		body.Message = "Draft rejected by review"
		body.Reason = out.Rejection.Reason
	case out.Post != nil:
		body.Message = "Successfully posted to LinkedIn"
		body.PostID = out.Post.ExternalPostID
	default:
		body.Message = "Run finished without publishing"
	}

	data, err := json.Marshal(body)
	if err != nil {
		return PosterResponse{}, err
	}
	return PosterResponse{StatusCode: 200, Body: string(data)}, nil
}

func withRequestID(ctx context.Context, log logging.Logger) *logging.Entry {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return log.WithField("aws_request_id", lc.AwsRequestID)
	}
	return log.WithFields(logging.Fields{})
}
