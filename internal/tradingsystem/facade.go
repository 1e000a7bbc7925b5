// Package tradingsystem assembles the matching core: catalogue, engines,
// execution routing, persistence and the phase/tick event loop, and
// owns the middleware channel bindings for the process lifetime.
package tradingsystem

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/config"
	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/events"
	"github.com/abdoElHodaky/marketsim/internal/execution"
	"github.com/abdoElHodaky/marketsim/internal/instruments"
	"github.com/abdoElHodaky/marketsim/internal/marketstate"
	"github.com/abdoElHodaky/marketsim/internal/middleware"
	"github.com/abdoElHodaky/marketsim/internal/persistence"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
	"github.com/abdoElHodaky/marketsim/internal/scheduling"
)

// TradingSystem is the facade of the matching core.
type TradingSystem struct {
	catalogue   *instruments.Catalogue
	system      *execution.ExecutionSystem
	pool        *scheduling.WorkerPool
	loop        *events.Loop
	persistence *persistence.Controller
	logger      *zap.Logger
}

// New builds the whole core from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*TradingSystem, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	listings, err := convertInstruments(cfg.Instruments)
	if err != nil {
		return nil, err
	}

	catalogue, err := instruments.BuildCatalogue(listings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build the instrument catalogue: %w", err)
	}
	resolver := instruments.NewCatalogueResolver(catalogue)

	workers := cfg.Engine.Workers
	if workers <= 0 {
		workers = scheduling.PoolSize(catalogue.Size())
	}
	pool, err := scheduling.NewWorkerPool(workers, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start the worker pool: %w", err)
	}

	publisher := func(replies []protocol.Reply) {
		for _, reply := range replies {
			if err := middleware.SendTradingReply(reply); err != nil {
				logger.Error("failed to publish reply",
					zap.Error(err),
				)
			}
		}
	}

	system := execution.NewExecutionSystem(
		catalogue,
		resolver,
		pool,
		publisher,
		execution.Config{
			QueueCapacity:  cfg.Engine.QueueCapacity,
			EnqueueTimeout: cfg.Engine.EnqueueTimeout,
		},
		logger,
	)

	loop := events.NewLoop(cfg.Engine.TickInterval, system, logger)

	controller := persistence.NewController(
		persistence.Config{
			Enabled:  cfg.Persistence.Enabled,
			FilePath: cfg.Persistence.FilePath,
		},
		system,
		marketstate.NewJSONSerializer(),
		cfg.Venue.Id,
		catalogue.Size(),
		logger,
	)

	return &TradingSystem{
		catalogue:   catalogue,
		system:      system,
		pool:        pool,
		loop:        loop,
		persistence: controller,
		logger:      logger,
	}, nil
}

// Start binds the middleware channels and launches the event loop.
func (t *TradingSystem) Start() {
	middleware.BindTradingRequestChannel(t.system)
	middleware.BindTradingSessionEventChannel(t)
	t.loop.Start()
	t.logger.Info("trading system started",
		zap.Int("instruments", t.catalogue.Size()),
	)
}

// Stop terminates the event loop, unbinds the channels and joins the
// worker pool.
func (t *TradingSystem) Stop() {
	t.loop.Stop()
	middleware.UnbindTradingRequestChannel()
	middleware.UnbindTradingSessionEventChannel()
	t.pool.Release()
	t.logger.Info("trading system stopped")
}

// HandleSessionTerminated implements the session event channel receiver.
func (t *TradingSystem) HandleSessionTerminated(event protocol.SessionTerminatedEvent) {
	t.system.HandleSessionTerminated(event)
}

// Persistence exposes the market state persistence controller to the
// administrative surface.
func (t *TradingSystem) Persistence() *persistence.Controller { return t.persistence }

// EventLoop exposes the phase/tick loop for administrative phase control.
func (t *TradingSystem) EventLoop() *events.Loop { return t.loop }

// Catalogue exposes the immutable instrument universe.
func (t *TradingSystem) Catalogue() *instruments.Catalogue { return t.catalogue }

func convertInstruments(configs []config.InstrumentConfig) ([]instruments.Instrument, error) {
	listings := make([]instruments.Instrument, 0, len(configs))
	for _, cfg := range configs {
		if cfg.Symbol == "" {
			return nil, fmt.Errorf("instrument configuration is missing a symbol")
		}

		securityType := domain.SecurityTypeCommonStock
		if cfg.SecurityType != "" {
			parsed, err := domain.ParseSecurityType(cfg.SecurityType)
			if err != nil {
				return nil, fmt.Errorf("instrument %q: %w", cfg.Symbol, err)
			}
			securityType = parsed
		}

		var partyRole domain.PartyRole
		if cfg.PartyRole != "" {
			parsed, err := domain.ParsePartyRole(cfg.PartyRole)
			if err != nil {
				return nil, fmt.Errorf("instrument %q: %w", cfg.Symbol, err)
			}
			partyRole = parsed
		} else if cfg.PartyId != "" {
			partyRole = domain.PartyRoleExecutingFirm
		}

		listings = append(listings, instruments.Instrument{
			Symbol:           cfg.Symbol,
			SecurityType:     securityType,
			PriceCurrency:    cfg.PriceCurrency,
			BaseCurrency:     cfg.BaseCurrency,
			SecurityExchange: cfg.SecurityExchange,
			Cusip:            cfg.Cusip,
			Sedol:            cfg.Sedol,
			Isin:             cfg.Isin,
			Ric:              cfg.Ric,
			ExchangeId:       cfg.ExchangeId,
			BloombergId:      cfg.BloombergId,
			PartyId:          cfg.PartyId,
			PartyRole:        partyRole,
			PriceTick:        domain.NewPrice(cfg.PriceTick),
			QuantityTick:     domain.NewQuantity(cfg.QuantityTick),
			MinQuantity:      domain.NewQuantity(cfg.MinQuantity),
			MaxQuantity:      domain.NewQuantity(cfg.MaxQuantity),
		})
	}
	return listings, nil
}
