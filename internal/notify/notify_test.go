package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, f.err
}

type fakeSlack struct {
	channel  string
	fallback string
	blocks   []slack.Block
	err      error
}

func (f *fakeSlack) SendMessageWithBlocks(_ context.Context, channel, fallback string, blocks []slack.Block) error {
	f.channel, f.fallback, f.blocks = channel, fallback, blocks
	return f.err
}

var finished = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func doneRun() *models.RunRecord {
	return &models.RunRecord{
		ID:             "01HRUN",
		Mode:           models.ModeRemote,
		State:          models.StateDone,
		Body:           "Ship small changes.",
		Hashtags:       []string{"#DevOps", "#SRE"},
		Approved:       true,
		Reason:         "approved",
		ExternalPostID: "urn:li:share:42",
		FinishedAt:     finished,
	}
}

func TestSNSNotifierSuccess(t *testing.T) {
	client := &fakeSNS{}
	require.NoError(t, NewSNSNotifier(client, "arn:aws:sns:us-east-1:123:posts").Notify(context.Background(), doneRun()))

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:123:posts", aws.ToString(in.TopicArn))
	assert.Equal(t, "LinkedIn Post Successful", aws.ToString(in.Subject))

	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(in.Message)), &msg))
	assert.Equal(t, "Ship small changes.\n\n#DevOps #SRE", msg["Post"])
	assert.Equal(t, "success", msg["status"])
	assert.Equal(t, "2025-03-01T09:00:00Z", msg["timestamp"])
	assert.Equal(t, "urn:li:share:42", msg["post_id"])
}

func TestSNSNotifierFailureAndRejection(t *testing.T) {
	client := &fakeSNS{}
	n := NewSNSNotifier(client, "arn")

	failed := &models.RunRecord{ID: "r1", State: models.StateFailed, Error: "generation failed: timeout", FinishedAt: finished}
	require.NoError(t, n.Notify(context.Background(), failed))

	rejected := &models.RunRecord{ID: "r2", State: models.StateRejected, Body: "Too short.", Hashtags: []string{"#A"}, Reason: "length", FinishedAt: finished}
	require.NoError(t, n.Notify(context.Background(), rejected))

	assert.Equal(t, "LinkedIn Post Failed", aws.ToString(client.inputs[0].Subject))
	assert.Contains(t, aws.ToString(client.inputs[0].Message), `"Post":"generation failed: timeout"`)
	assert.Equal(t, "LinkedIn Post Rejected", aws.ToString(client.inputs[1].Subject))
	assert.Contains(t, aws.ToString(client.inputs[1].Message), `"reason":"length"`)
}

func TestSNSNotifierError(t *testing.T) {
	err := NewSNSNotifier(&fakeSNS{err: errors.New("throttled")}, "arn").Notify(context.Background(), doneRun())
	assert.ErrorContains(t, err, "throttled")
}

func TestSlackNotifier(t *testing.T) {
	client := &fakeSlack{}
	n := &SlackNotifier{client: client, channel: "C42"}

	require.NoError(t, n.Notify(context.Background(), doneRun()))
	assert.Equal(t, "C42", client.channel)
	assert.Equal(t, "LinkedIn Post Successful", client.fallback)
	require.Len(t, client.blocks, 3)

	header := client.blocks[0].(*slack.HeaderBlock)
	assert.Equal(t, "✅ LinkedIn Post Successful", header.Text.Text)
	section := client.blocks[1].(*slack.SectionBlock)
	assert.Equal(t, "Ship small changes.\n\n#DevOps #SRE", section.Text.Text)
}

func TestSlackNotifierRejectedWithoutBody(t *testing.T) {
	client := &fakeSlack{}
	n := &SlackNotifier{client: client, channel: "C42"}

	require.NoError(t, n.Notify(context.Background(), &models.RunRecord{ID: "r", State: models.StateFailed, Error: "boom"}))
	assert.Len(t, client.blocks, 2)
	assert.Equal(t, "LinkedIn Post Failed", client.fallback)
}

func TestMultiJoinsErrors(t *testing.T) {
	sent := &fakeSNS{}
	m := Multi{
		NewSNSNotifier(sent, "arn"),
		&SlackNotifier{client: &fakeSlack{err: errors.New("channel_not_found")}, channel: "C1"},
	}

	err := m.Notify(context.Background(), doneRun())
	assert.ErrorContains(t, err, "channel_not_found")
	assert.Len(t, sent.inputs, 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
