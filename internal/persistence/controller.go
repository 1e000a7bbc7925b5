// Package persistence implements the market state persistence
// controller: building a venue snapshot from every engine and writing it
// through the pluggable serialiser, and the reverse recovery path.
package persistence

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/marketstate"
)

// StoreResult enumerates the outcomes of a store operation.
type StoreResult uint8

const (
	Stored StoreResult = iota + 1
	StorePersistenceDisabled
	StorePersistenceFilePathIsEmpty
	StorePersistenceFilePathIsUnreachable
	StoreErrorWhenOpeningPersistenceFile
	ErrorWhenWritingToPersistenceFile
)

var storeResultNames = map[StoreResult]string{
	Stored:                                "Stored",
	StorePersistenceDisabled:              "PersistenceDisabled",
	StorePersistenceFilePathIsEmpty:       "PersistenceFilePathIsEmpty",
	StorePersistenceFilePathIsUnreachable: "PersistenceFilePathIsUnreachable",
	StoreErrorWhenOpeningPersistenceFile:  "ErrorWhenOpeningPersistenceFile",
	ErrorWhenWritingToPersistenceFile:     "ErrorWhenWritingToPersistenceFile",
}

func (r StoreResult) String() string {
	if name, ok := storeResultNames[r]; ok {
		return name
	}
	return "undefined"
}

// RecoverResult enumerates the outcomes of a recover operation.
type RecoverResult uint8

const (
	Recovered RecoverResult = iota + 1
	RecoverPersistenceDisabled
	RecoverPersistenceFilePathIsEmpty
	RecoverPersistenceFilePathIsUnreachable
	RecoverErrorWhenOpeningPersistenceFile
	PersistenceFileIsMalformed
)

var recoverResultNames = map[RecoverResult]string{
	Recovered:                               "Recovered",
	RecoverPersistenceDisabled:              "PersistenceDisabled",
	RecoverPersistenceFilePathIsEmpty:       "PersistenceFilePathIsEmpty",
	RecoverPersistenceFilePathIsUnreachable: "PersistenceFilePathIsUnreachable",
	RecoverErrorWhenOpeningPersistenceFile:  "ErrorWhenOpeningPersistenceFile",
	PersistenceFileIsMalformed:              "PersistenceFileIsMalformed",
}

func (r RecoverResult) String() string {
	if name, ok := recoverResultNames[r]; ok {
		return name
	}
	return "undefined"
}

// Config carries the two configuration values entering the controller.
type Config struct {
	Enabled  bool
	FilePath string
}

// Executor is the slice of the execution system the controller uses.
type Executor interface {
	StoreStateRequest(states []marketstate.InstrumentState)
	RecoverStateRequest(states []marketstate.InstrumentState)
}

// Controller stores and recovers the whole venue market state.
type Controller struct {
	config     Config
	executor   Executor
	serializer marketstate.Serializer
	venueId    string
	size       int
	logger     *zap.Logger
}

// NewController creates a persistence controller. Size is the catalogue
// instrument count; one instrument state slot is allocated per engine.
func NewController(
	config Config,
	executor Executor,
	serializer marketstate.Serializer,
	venueId string,
	size int,
	logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		config:     config,
		executor:   executor,
		serializer: serializer,
		venueId:    venueId,
		size:       size,
		logger:     logger,
	}
}

// Store captures every engine's state and writes the snapshot document.
func (c *Controller) Store() StoreResult {
	if !c.config.Enabled {
		c.logger.Info("the market state was not stored: the persistence is disabled")
		return StorePersistenceDisabled
	}

	if c.config.FilePath == "" {
		c.logger.Error("the market state was not stored: the persistence file path is empty")
		return StorePersistenceFilePathIsEmpty
	}

	if directory := filepath.Dir(c.config.FilePath); directory != "" && directory != "." {
		if info, err := os.Stat(directory); err != nil || !info.IsDir() {
			c.logger.Error("the market state was not stored: the persistence file path directory does not exist",
				zap.String("directory", directory),
			)
			return StorePersistenceFilePathIsUnreachable
		}
	}

	snapshot := marketstate.Snapshot{
		VenueId:     c.venueId,
		Instruments: make([]marketstate.InstrumentState, c.size),
	}
	c.executor.StoreStateRequest(snapshot.Instruments)

	file, err := os.Create(c.config.FilePath)
	if err != nil {
		c.logger.Error("the market state was not stored: unable to open file",
			zap.Error(err),
		)
		return StoreErrorWhenOpeningPersistenceFile
	}
	defer file.Close()

	if err := c.serializer.Serialize(snapshot, file); err != nil {
		c.logger.Error("the market state was not stored: unable to write the document",
			zap.Error(err),
		)
		return ErrorWhenWritingToPersistenceFile
	}

	c.logger.Info("market state stored",
		zap.String("file", c.config.FilePath),
		zap.Int("instruments", c.size),
	)
	return Stored
}

// Recover reads the snapshot document and restores every engine whose
// instrument identity matches a persisted state. The error text of a
// malformed document accompanies the result.
func (c *Controller) Recover() (RecoverResult, string) {
	if !c.config.Enabled {
		c.logger.Info("the market state was not recovered: the persistence is disabled")
		return RecoverPersistenceDisabled, ""
	}

	if c.config.FilePath == "" {
		c.logger.Info("the market state was not recovered: the persistence file path is empty")
		return RecoverPersistenceFilePathIsEmpty, ""
	}

	info, err := os.Stat(c.config.FilePath)
	if err != nil || info.IsDir() {
		c.logger.Info("the market state was not recovered: the persistence file path is unreachable",
			zap.String("file", c.config.FilePath),
		)
		return RecoverPersistenceFilePathIsUnreachable, ""
	}

	file, err := os.Open(c.config.FilePath)
	if err != nil {
		c.logger.Error("the market state was not recovered: unable to open file",
			zap.Error(err),
		)
		return RecoverErrorWhenOpeningPersistenceFile, ""
	}
	defer file.Close()

	snapshot, err := c.serializer.Deserialize(file)
	if err != nil {
		c.logger.Error("the market state was not recovered: the persistence file is malformed",
			zap.Error(err),
		)
		return PersistenceFileIsMalformed, err.Error()
	}

	c.executor.RecoverStateRequest(snapshot.Instruments)

	c.logger.Info("market state recovered",
		zap.String("file", c.config.FilePath),
		zap.Int("instruments", len(snapshot.Instruments)),
	)
	return Recovered, ""
}
