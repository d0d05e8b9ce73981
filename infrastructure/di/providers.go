package di

import (
	"context"
	"fmt"

	"shoplist-backend/application/commands"
	"shoplist-backend/application/commands/bus"
	commands_handlers "shoplist-backend/application/commands/handlers"
	"shoplist-backend/application/ports"
	"shoplist-backend/application/queries"
	querybus "shoplist-backend/application/queries/bus"
	queries_handlers "shoplist-backend/application/queries/handlers"
	"shoplist-backend/infrastructure/config"
	"shoplist-backend/infrastructure/messaging/eventbridge"
	"shoplist-backend/infrastructure/persistence/dynamodb"
	"shoplist-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideItemRepository creates the item repository
func ProvideItemRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ItemRepository {
	return dynamodb.NewItemRepository(
		client,
		cfg.DynamoDBTable,
		logger,
	)
}

// ProvideEventPublisher creates an event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(
		client,
		cfg.EventBusName,
		logger,
	)
}

// ProvideMetrics creates metrics instance. Returns nil when metrics are
// disabled; a nil Metrics records nothing.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("Shoplist/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) (interface{}, error)
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	itemRepo ports.ItemRepository,
	eventPublisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	middleware := []bus.Middleware{
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	}

	// Register CreateItemCommand handler
	createHandler := commands_handlers.NewCreateItemHandler(itemRepo, eventPublisher, logger)
	commandBus.Register(commands.CreateItemCommand{}, bus.Chain(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			createCmd, ok := cmd.(commands.CreateItemCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return createHandler.Handle(ctx, createCmd)
		},
	}, middleware...))

	// Register UpdateCheckedCommand handler
	updateHandler := commands_handlers.NewUpdateCheckedHandler(itemRepo, logger)
	commandBus.Register(commands.UpdateCheckedCommand{}, bus.Chain(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			updateCmd, ok := cmd.(commands.UpdateCheckedCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return updateHandler.Handle(ctx, updateCmd)
		},
	}, middleware...))

	// Register ClearCheckedCommand handler
	clearHandler := commands_handlers.NewClearCheckedHandler(itemRepo, eventPublisher, logger)
	commandBus.Register(commands.ClearCheckedCommand{}, bus.Chain(&CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			clearCmd, ok := cmd.(commands.ClearCheckedCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return clearHandler.Handle(ctx, clearCmd)
		},
	}, middleware...))

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	itemRepo ports.ItemRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	middleware := []querybus.Middleware{
		querybus.MetricsMiddleware(metrics),
	}

	// Register ListItemsQuery handler
	listHandler := queries_handlers.NewListItemsHandler(itemRepo, logger)
	queryBus.Register(queries.ListItemsQuery{}, querybus.Chain(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListItemsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listHandler.Handle(ctx, listQuery)
		},
	}, middleware...))

	return queryBus
}
