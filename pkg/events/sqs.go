package events

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/flaboy/aira-catalog/pkg/config"
)

// SQSHandler forwards sync events to an SQS queue so downstream systems
// can react to catalog changes. Only installed when a queue URL is
// configured, and never during dry runs.
type SQSHandler struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSHandler() (*SQSHandler, error) {
	ctx := context.Background()
	sqsCfg := config.Config.SQS

	var cfg aws.Config
	var err error
	if sqsCfg.AWSAccessKey != "" && sqsCfg.AWSSecret != "" {
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(sqsCfg.AWSRegion),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				sqsCfg.AWSAccessKey,
				sqsCfg.AWSSecret,
				"",
			)),
		)
	} else {
		// 回退到默认配置
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(sqsCfg.AWSRegion),
		)
	}
	if err != nil {
		return nil, err
	}

	return &SQSHandler{
		client:   sqs.NewFromConfig(cfg),
		queueURL: sqsCfg.QueueURL,
	}, nil
}

func (h *SQSHandler) OnProductPublished(event *ProductPublishedEvent) error {
	return h.send("catalog/product_published", event)
}

func (h *SQSHandler) OnRunCompleted(event *RunCompletedEvent) error {
	return h.send("catalog/run_completed", event)
}

func (h *SQSHandler) send(eventType string, payload interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		return err
	}

	_, err = h.client.SendMessage(context.Background(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(h.queueURL),
		MessageBody: aws.String(string(body)),
	})
	return err
}
