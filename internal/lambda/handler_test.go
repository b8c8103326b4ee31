package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
	"github.com/shubh-37/linkedin-autoposter/internal/pipeline"
)

type fakeGenerator struct {
	got pipeline.GenerateRequest
}

func (f *fakeGenerator) Handle(_ context.Context, req pipeline.GenerateRequest) (pipeline.GenerateResponse, error) {
	f.got = req
	return pipeline.GenerateResponse{RunID: "gen-1", Review: models.ReviewResult{Approved: true}}, nil
}

type fakePoster struct {
	out  *pipeline.Outcome
	err  error
	hint string
}

func (f *fakePoster) Run(_ context.Context, topicHint string) (*pipeline.Outcome, error) {
	f.hint = topicHint
	return f.out, f.err
}

func decodeBody(t *testing.T, resp PosterResponse) posterBody {
	t.Helper()
	var body posterBody
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return body
}

func TestGeneratorHandler(t *testing.T) {
	fn := &fakeGenerator{}
	h := NewGeneratorHandler(fn, logging.NewNopLogger())

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	resp, err := h.Handle(ctx, pipeline.GenerateRequest{TopicHint: "observability"})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", resp.RunID)
	assert.Equal(t, "observability", fn.got.TopicHint)
}

func TestPosterHandler_Published(t *testing.T) {
	p := &fakePoster{out: &pipeline.Outcome{
		RunID: "run-1",
		State: models.StateDone,
		Post:  &models.PostRecord{ExternalPostID: "urn:li:share:42"},
	}}
	h := NewPosterHandler(p, logging.NewNopLogger())

	resp, err := h.Handle(context.Background(), PosterEvent{TopicHint: "gitops"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "gitops", p.hint)

	body := decodeBody(t, resp)
	assert.Equal(t, "urn:li:share:42", body.PostID)
	assert.Equal(t, "DONE", body.State)
	assert.Equal(t, "Successfully posted to LinkedIn", body.Message)
}

func TestPosterHandler_Rejected(t *testing.T) {
	p := &fakePoster{out: &pipeline.Outcome{
		RunID:     "run-2",
		State:     models.StateRejected,
		Rejection: &models.RejectedByReview{Reason: "length"},
	}}

	resp, err := NewPosterHandler(p, logging.NewNopLogger()).Handle(context.Background(), PosterEvent{})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "length", body.Reason)
	assert.Empty(t, body.PostID)
}

func TestPosterHandler_Failure(t *testing.T) {
	publishErr := &models.PublishError{StatusCode: 401, Body: "expired token"}
	p := &fakePoster{out: &pipeline.Outcome{State: models.StateFailed, Err: publishErr}, err: publishErr}

	_, err := NewPosterHandler(p, logging.NewNopLogger()).Handle(context.Background(), PosterEvent{})
	var target *models.PublishError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 401, target.StatusCode)
}
