package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/idilsaglam/watchlist/internal/config"
	"github.com/idilsaglam/watchlist/internal/i18n"
	"github.com/idilsaglam/watchlist/internal/logging"
	"github.com/idilsaglam/watchlist/internal/query"
	"github.com/idilsaglam/watchlist/internal/store"
	"github.com/idilsaglam/watchlist/internal/store/jsonstore"
	"github.com/idilsaglam/watchlist/internal/store/sqlitestore"
	"github.com/idilsaglam/watchlist/internal/transfer"
	"github.com/idilsaglam/watchlist/internal/ui"
)

// globalFlags are the persistent flags shared by every command. Non-empty
// values override the config file and environment.
type globalFlags struct {
	config  string
	dataDir string
	backend string
	locale  string
	theme   string
	noColor bool
}

// commandContext lazily builds what commands need: config, logger, store.
type commandContext struct {
	flags globalFlags
	stdin io.Reader

	configOnce  sync.Once
	config      *config.Config
	configPath  string
	configFound bool
	configErr   error

	logger   *slog.Logger
	closeLog func() error

	store     *store.Store
	closeSlot func() error
}

func newCommandContext(stdin io.Reader) *commandContext {
	return &commandContext{stdin: stdin}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, found, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyFlags(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = usageError{msg: err.Error()}
			return
		}
		c.config = cfg
		c.configPath = path
		c.configFound = found
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlags(cfg *config.Config) error {
	if v := strings.TrimSpace(c.flags.dataDir); v != "" {
		dir, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("--data-dir: %w", err)
		}
		cfg.Storage.DataDir = dir
	}
	if v := strings.TrimSpace(c.flags.backend); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(c.flags.locale); v != "" {
		cfg.Display.Locale = v
	}
	if v := strings.TrimSpace(c.flags.theme); v != "" {
		cfg.Display.Theme = strings.ToLower(v)
	}
	return nil
}

// setup runs once per invocation before any command that needs config.
func (c *commandContext) setup() error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	ui.SetTheme(cfg.Display.Theme)
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	ui.SetColorForcing(false, c.flags.noColor || noColorEnv || cfg.Display.Theme == "mono")

	if c.logger == nil {
		logger, closeFn, err := logging.NewFromConfig(cfg)
		if err != nil {
			return err
		}
		c.logger, c.closeLog = logger, closeFn
	}
	return nil
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return logging.Discard()
	}
	return c.logger
}

func (c *commandContext) labels() *i18n.Labels {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		return i18n.New(i18n.Default())
	}
	return i18n.New(i18n.Resolve(cfg.Display.Locale))
}

func (c *commandContext) queryEngine() *query.Engine {
	return query.New(c.labels().Tag())
}

// openSlot builds the configured storage backend.
func (c *commandContext) openSlot(ctx context.Context) (store.Slot, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(ctx, filepath.Join(cfg.Storage.DataDir, sqlitestore.DatabaseFileName), store.SlotName)
		if err != nil {
			return nil, nil, &store.StorageError{Op: "open", Slot: sqlitestore.DatabaseFileName, Err: err}
		}
		return s, s.Close, nil
	default:
		return jsonstore.New(cfg.Storage.DataDir), func() error { return nil }, nil
	}
}

// loadStore opens the slot and loads the collection.
func (c *commandContext) loadStore(ctx context.Context) (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	slot, closeFn, err := c.openSlot(ctx)
	if err != nil {
		return nil, err
	}
	s := store.New(slot, store.WithLogger(c.log()))
	if _, err := s.Load(ctx); err != nil {
		_ = closeFn()
		return nil, err
	}
	c.store, c.closeSlot = s, closeFn
	return s, nil
}

func (c *commandContext) importer(s *store.Store) *transfer.Engine {
	return transfer.NewEngine(s, c.log())
}

func (c *commandContext) close() error {
	var errs []error
	if c.closeSlot != nil {
		errs = append(errs, c.closeSlot())
	}
	if c.closeLog != nil {
		errs = append(errs, c.closeLog())
	}
	return errors.Join(errs...)
}
