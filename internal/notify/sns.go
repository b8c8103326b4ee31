package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes run results to an SNS topic.
type SNSNotifier struct {
	client   snsAPI
	topicARN string
}

func NewSNSNotifier(client snsAPI, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func NewSNSNotifierFromEnv(ctx context.Context, region, topicARN string) (*SNSNotifier, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSNSNotifier(sns.NewFromConfig(cfg), topicARN), nil
}

type snsMessage struct {
	Post      string `json:"Post"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	RunID     string `json:"run_id"`
	PostID    string `json:"post_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (n *SNSNotifier) Notify(ctx context.Context, run *models.RunRecord) error {
	msg := snsMessage{
		Post:      postText(run),
		Status:    status(run),
		Timestamp: run.FinishedAt.Format(time.RFC3339),
		RunID:     run.ID,
		PostID:    run.ExternalPostID,
		Error:     run.Error,
	}
	if run.State == models.StateRejected {
		msg.Reason = run.Reason
	}
	if run.State == models.StateFailed && msg.Post == "" {
		msg.Post = run.Error
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String(subject(run)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}
