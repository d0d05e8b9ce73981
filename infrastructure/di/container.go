package di

import (
	"shoplist-backend/application/commands/bus"
	"shoplist-backend/application/ports"
	querybus "shoplist-backend/application/queries/bus"
	"shoplist-backend/infrastructure/config"
	"shoplist-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ItemRepo       ports.ItemRepository
	EventPublisher ports.EventPublisher
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Metrics        *observability.Metrics
}
