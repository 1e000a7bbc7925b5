package tradingsystem

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/config"
)

// Module provides the trading system for the fx application
var Module = fx.Options(
	fx.Provide(NewFxTradingSystem),
)

// NewFxTradingSystem creates the trading system and ties channel binding
// and the event loop to the fx lifecycle.
func NewFxTradingSystem(
	lifecycle fx.Lifecycle,
	cfg *config.Config,
	logger *zap.Logger,
) (*TradingSystem, error) {
	system, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			system.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			system.Stop()
			return nil
		},
	})

	return system, nil
}
