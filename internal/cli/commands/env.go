package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/docbridge/internal/catalog"
	"github.com/conduit-lang/docbridge/internal/cli/config"
	"github.com/conduit-lang/docbridge/internal/cli/ui"
	"github.com/conduit-lang/docbridge/internal/convert"
	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/resource"
	"github.com/conduit-lang/docbridge/internal/store"
)

// options holds the persistent flags shared by every command
type options struct {
	configDir      string
	catalogPath    string
	coercionPolicy string
	logLevel       string
	noColor        bool
}

// environment is the loaded configuration, catalog and converter for one
// command invocation
type environment struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *catalog.Registry
	converter *convert.Converter
	noColor   bool
}

func (o *options) load(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load(o.configDir)
	if err != nil {
		return nil, report(cmd, ui.ConfigError(err, o.noColor), err)
	}

	if o.catalogPath != "" {
		cfg.Catalog = o.catalogPath
	}
	if o.coercionPolicy != "" {
		cfg.Decode.CoercionPolicy = o.coercionPolicy
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	policy, err := convert.ParseCoercionPolicy(cfg.Decode.CoercionPolicy)
	if err != nil {
		return nil, report(cmd, ui.ConfigError(err, o.noColor), err)
	}

	logger := newLogger(cfg.Log)

	path := cfg.Catalog
	if !filepath.IsAbs(path) && o.configDir != "" && o.catalogPath == "" {
		path = filepath.Join(o.configDir, path)
	}
	registry, err := catalog.LoadPath(path)
	if err != nil {
		return nil, report(cmd, ui.Format(ui.Report{
			Level:   ui.LevelError,
			Context: "catalog error",
			Problem: err.Error(),
			Hints:   []string{"Point at a catalog: docbridge --catalog catalog.yaml"},
			NoColor: o.noColor,
		}), err)
	}

	logger.Debug("catalog loaded",
		zap.String("path", path),
		zap.Int("types", registry.Count()),
		zap.Stringer("coercion_policy", policy))

	return &environment{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		converter: convert.New(registry,
			convert.WithLogger(logger),
			convert.WithCoercionPolicy(policy)),
		noColor: o.noColor,
	}, nil
}

// newLogger builds a zap logger writing to stderr at the configured level,
// falling back to a no-op logger
func newLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (e *environment) close() {
	_ = e.logger.Sync()
}

// openStore connects to the configured document store
func (e *environment) openStore(ctx context.Context) (store.DocumentStore, error) {
	sc := e.cfg.Store
	switch sc.Driver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(store.RedisConfig{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
			Prefix:   sc.Prefix,
		})
	case "postgres", "sqlite3":
		dialect, err := store.ParseDialect(sc.Driver)
		if err != nil {
			return nil, err
		}
		return store.OpenSQLStore(ctx, dialect, sc.DSN, sc.Table)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", sc.Driver)
	}
}

// resolveSet looks up a resource set, rendering suggestions when it is missing
func (e *environment) resolveSet(cmd *cobra.Command, name string) (*resource.Set, error) {
	set, ok := e.registry.ResolveResourceSet(name)
	if !ok {
		names := make([]string, 0)
		for _, s := range e.registry.Sets() {
			names = append(names, s.Name)
		}
		err := fmt.Errorf("resource set not found: %s", name)
		return nil, report(cmd, ui.SetNotFound(name, names, e.noColor), err)
	}
	return set, nil
}

// conversionFailed renders a converter error with type suggestions when the
// failure was an unresolved type
func (e *environment) conversionFailed(cmd *cobra.Command, err error) error {
	var tre *convert.TypeResolutionError
	if errors.As(err, &tre) {
		return report(cmd, ui.TypeNotFound(tre.Name, e.registry.TypeNames(), e.noColor), err)
	}
	return report(cmd, ui.ConversionFailed(err, e.noColor), err)
}

// readDocument reads a document from path, or stdin when path is empty or "-".
// format is "json" (Extended JSON, canonical or relaxed) or "bson".
func readDocument(cmd *cobra.Command, path, format string) (document.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	switch format {
	case "json", "extjson":
		return document.UnmarshalExtJSON(data)
	case "bson":
		return document.Unmarshal(data)
	default:
		return nil, fmt.Errorf("unknown input format: %s (expected json or bson)", format)
	}
}

// writeJSON writes v as indented JSON followed by a newline
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeDocument writes doc as Extended JSON or raw BSON
func writeDocument(w io.Writer, doc document.Document, format string, canonical bool) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json", "extjson":
		data, err = document.MarshalExtJSON(doc, canonical)
		if err == nil {
			data = append(data, '\n')
		}
	case "bson":
		data, err = document.Marshal(doc)
	default:
		return fmt.Errorf("unknown output format: %s (expected json or bson)", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
