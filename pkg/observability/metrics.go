package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes operation metrics to CloudWatch. A nil Metrics is a valid
// no-op so callers never need to guard their instrumentation.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a metrics publisher for a namespace.
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordOperation records one invocation of a named operation: a count, its
// duration, and an error count when it failed. Publishing is best effort and
// never blocks the caller on metric delivery problems.
func (m *Metrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, success bool) {
	if m == nil || m.client == nil {
		return
	}

	dimensions := []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(operation)},
	}
	now := time.Now()

	data := []types.MetricDatum{
		{
			MetricName: aws.String("OperationCount"),
			Dimensions: dimensions,
			Timestamp:  aws.Time(now),
			Unit:       types.StandardUnitCount,
			Value:      aws.Float64(1),
		},
		{
			MetricName: aws.String("OperationDuration"),
			Dimensions: dimensions,
			Timestamp:  aws.Time(now),
			Unit:       types.StandardUnitMilliseconds,
			Value:      aws.Float64(float64(duration.Milliseconds())),
		},
	}
	if !success {
		data = append(data, types.MetricDatum{
			MetricName: aws.String("OperationErrors"),
			Dimensions: dimensions,
			Timestamp:  aws.Time(now),
			Unit:       types.StandardUnitCount,
			Value:      aws.Float64(1),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to publish metrics",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}
