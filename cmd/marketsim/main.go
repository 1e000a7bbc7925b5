package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/config"
	"github.com/abdoElHodaky/marketsim/internal/persistence"
	"github.com/abdoElHodaky/marketsim/internal/tradingsystem"
)

const (
	appName    = "MarketSim"
	appVersion = "v1.0.0"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to the configuration directory")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", appName, appVersion)
		os.Exit(0)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.Supply(logger),
		fx.Provide(func(logger *zap.Logger) (*config.Config, error) {
			return config.LoadConfig(*configPath, logger)
		}),
		tradingsystem.Module,
		fx.Invoke(recoverMarketState),
	)

	app.Run()
}

// recoverMarketState restores the persisted market state on startup when
// persistence is enabled. A missing file is a cold start, not an error.
func recoverMarketState(system *tradingsystem.TradingSystem, logger *zap.Logger) {
	result, detail := system.Persistence().Recover()
	switch result {
	case persistence.Recovered:
		logger.Info("market state recovered on startup")
	case persistence.RecoverPersistenceDisabled,
		persistence.RecoverPersistenceFilePathIsEmpty,
		persistence.RecoverPersistenceFilePathIsUnreachable:
		logger.Info("starting with an empty market state",
			zap.String("reason", result.String()),
		)
	default:
		logger.Error("failed to recover market state",
			zap.String("result", result.String()),
			zap.String("detail", detail),
		)
	}
}
