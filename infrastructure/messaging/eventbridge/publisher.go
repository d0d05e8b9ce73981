package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"shoplist-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const eventSource = "shoplist.items"

// Publisher emits domain events to an EventBridge bus. When no bus name is
// configured it becomes a no-op, so local development needs no AWS account.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends one event. Failures are returned to the caller, who decides
// whether the event is best-effort.
func (p *Publisher) Publish(ctx context.Context, detailType string, detail interface{}) error {
	if p.busName == "" {
		p.logger.Debug("Event bus not configured, dropping event",
			zap.String("detailType", detailType),
		)
		return nil
	}

	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal event detail: %w", err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(string(payload)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put events: %w", err)
	}

	if result.FailedEntryCount > 0 {
		entry := result.Entries[0]
		return fmt.Errorf("event rejected: %s (%s)",
			aws.ToString(entry.ErrorMessage), aws.ToString(entry.ErrorCode))
	}

	p.logger.Debug("Event published", zap.String("detailType", detailType))
	return nil
}
