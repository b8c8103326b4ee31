package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/linkedin-autoposter/internal/linkedin"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type stubInvoker struct {
	resp  GenerateResponse
	err   error
	block bool
	calls int
	got   GenerateRequest
}

func (i *stubInvoker) Invoke(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	i.calls++
	i.got = req
	if i.block {
		<-ctx.Done()
		return GenerateResponse{}, ctx.Err()
	}
	return i.resp, i.err
}

func approvedResponse() GenerateResponse {
	draft := newDraft(approvableBody, "#DevOps", "#Kubernetes", "#SRE")
	return GenerateResponse{
		RunID:  "gen-1",
		Draft:  draft,
		Review: newReviewer().Review(draft),
	}
}

func TestPosterPublishesApprovedRemoteDraft(t *testing.T) {
	var posts int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"urn:li:share:42"}`)
	}))
	defer api.Close()

	invoker := &stubInvoker{resp: approvedResponse()}
	require.True(t, invoker.resp.Review.Approved)

	publisher := linkedin.NewClient(linkedin.Config{APIURL: api.URL})
	out, err := NewPoster(invoker, publisher, fullCreds).Run(context.Background(), "FinOps")
	require.NoError(t, err)

	assert.Equal(t, 1, invoker.calls)
	assert.Equal(t, "FinOps", invoker.got.TopicHint)
	assert.Equal(t, 1, posts)
	assert.Equal(t, models.StateDone, out.State)
	assert.Equal(t, models.ModeRemote, out.Mode)
	require.NotNil(t, out.Post)
	assert.Equal(t, "urn:li:share:42", out.Post.ExternalPostID)
	assert.Equal(t, approvableBody, out.Post.Body)
}

func TestPosterRejectedRemoteDraft(t *testing.T) {
	draft := newDraft("Too short.", "#DevOps")
	invoker := &stubInvoker{resp: GenerateResponse{Draft: draft, Review: newReviewer().Review(draft)}}
	pub := &stubPublisher{}

	out, err := NewPoster(invoker, pub, fullCreds).Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StateRejected, out.State)
	assert.Equal(t, "length", out.Rejection.Reason)
	assert.Zero(t, pub.calls)
}

func TestPosterLocalReviewOverridesRemoteApproval(t *testing.T) {
	draft := newDraft("Too short.", "#DevOps")
	review := newReviewer().Review(draft)
	review.Approved = true
	review.Reason = "approved"
	invoker := &stubInvoker{resp: GenerateResponse{Draft: draft, Review: review}}
	pub := &stubPublisher{}

	out, err := NewPoster(invoker, pub, fullCreds, WithLocalReview(newReviewer())).Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StateRejected, out.State)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, "length", out.Rejection.Reason)
	assert.Zero(t, pub.calls)
}

func TestPosterLocalReviewAgrees(t *testing.T) {
	invoker := &stubInvoker{resp: approvedResponse()}
	pub := &stubPublisher{}

	out, err := NewPoster(invoker, pub, fullCreds, WithLocalReview(newReviewer())).Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StateDone, out.State)
	assert.Equal(t, 1, pub.calls)
}

func TestPosterTimeout(t *testing.T) {
	invoker := &stubInvoker{block: true}
	pub := &stubPublisher{}

	start := time.Now()
	out, err := NewPoster(invoker, pub, fullCreds, WithTimeout(50*time.Millisecond)).Run(context.Background(), "")

	var genErr *models.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, models.StateFailed, out.State)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Zero(t, pub.calls)
}

func TestPosterInvokeError(t *testing.T) {
	invoker := &stubInvoker{err: errors.New("function crashed")}

	_, err := NewPoster(invoker, &stubPublisher{}, fullCreds).Run(context.Background(), "")

	var genErr *models.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.ErrorContains(t, err, "function crashed")
}

func TestPosterEmptyRemoteDraft(t *testing.T) {
	invoker := &stubInvoker{resp: GenerateResponse{Review: models.ReviewResult{Approved: true}}}
	pub := &stubPublisher{}

	_, err := NewPoster(invoker, pub, fullCreds).Run(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrEmptyContent)
	assert.Zero(t, pub.calls)
}

func TestPosterMissingCredentials(t *testing.T) {
	invoker := &stubInvoker{resp: approvedResponse()}

	_, err := NewPoster(invoker, &stubPublisher{}, models.Credentials{}).Run(context.Background(), "")

	var cfgErr *models.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Zero(t, invoker.calls)
}

func TestGeneratorFunctionHandle(t *testing.T) {
	store := &memoryStore{}
	fn := NewGeneratorFunction(&stubGenerator{draft: newDraft("Too short.", "#DevOps")}, newReviewer(), WithStore(store))

	resp, err := fn.Handle(context.Background(), GenerateRequest{TopicHint: "SRE"})
	require.NoError(t, err)

	assert.False(t, resp.Review.Approved)
	assert.Equal(t, "Too short.", resp.Draft.Body)
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, store.runs, 1)
	assert.Equal(t, models.ModeGenerate, store.runs[0].Mode)
	assert.Equal(t, models.StateRejected, store.runs[0].State)
}

func TestGeneratorFunctionHandleFailure(t *testing.T) {
	fn := NewGeneratorFunction(&stubGenerator{err: &models.GenerationError{Err: models.ErrEmptyContent}}, newReviewer())

	_, err := fn.Handle(context.Background(), GenerateRequest{})
	assert.ErrorIs(t, err, models.ErrEmptyContent)
}
