package validator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	yaml "go.yaml.in/yaml/v4"

	"github.com/erraggy/stacschema/internal/options"
	"github.com/erraggy/stacschema/schema"
	"github.com/erraggy/stacschema/stacerrors"
)

// Option is a function that configures a validation run
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation run
type validateConfig struct {
	// Schema source (at most one; omitted means detect from the instance)
	schemaURI string
	node      *schema.Node

	// Instance source (exactly one must be set)
	instanceFile     *string
	instanceBytes    []byte
	instanceReader   io.Reader
	instanceValue    any
	hasInstanceValue bool

	// Engine configuration
	ctx     context.Context
	session *schema.Session
	fetcher schema.Fetcher
	logger  schema.Logger
	formats map[string]FormatValidator
}

// WithSchemaURI sets the root schema to validate against. When omitted, the
// schema URI is derived from the instance's stac_version and type fields.
func WithSchemaURI(uri string) Option {
	return func(cfg *validateConfig) error {
		cfg.schemaURI = uri
		return nil
	}
}

// WithCompiledSchema validates against an already compiled schema node,
// skipping resolution entirely.
func WithCompiledSchema(node *schema.Node) Option {
	return func(cfg *validateConfig) error {
		if node == nil {
			return &stacerrors.ConfigError{Option: "WithCompiledSchema", Message: "node must not be nil"}
		}
		cfg.node = node
		return nil
	}
}

// WithInstanceFile reads the document instance from a file.
// Files ending in .yaml or .yml are decoded as YAML; everything else as JSON.
func WithInstanceFile(path string) Option {
	return func(cfg *validateConfig) error {
		cfg.instanceFile = &path
		return nil
	}
}

// WithInstanceBytes uses raw document bytes as the instance (JSON or YAML,
// detected by content).
func WithInstanceBytes(data []byte) Option {
	return func(cfg *validateConfig) error {
		cfg.instanceBytes = data
		return nil
	}
}

// WithInstanceReader reads the document instance from r.
func WithInstanceReader(r io.Reader) Option {
	return func(cfg *validateConfig) error {
		cfg.instanceReader = r
		return nil
	}
}

// WithInstance uses an already decoded JSON value tree as the instance.
func WithInstance(instance any) Option {
	return func(cfg *validateConfig) error {
		cfg.instanceValue = instance
		cfg.hasInstanceValue = true
		return nil
	}
}

// WithContext sets the context governing schema fetches.
func WithContext(ctx context.Context) Option {
	return func(cfg *validateConfig) error {
		cfg.ctx = ctx
		return nil
	}
}

// WithSession reuses an existing resolution session (and its document cache)
// instead of creating a fresh one.
func WithSession(s *schema.Session) Option {
	return func(cfg *validateConfig) error {
		if s == nil {
			return &stacerrors.ConfigError{Option: "WithSession", Message: "session must not be nil"}
		}
		cfg.session = s
		return nil
	}
}

// WithFetcher sets the fetcher used when a new session is created.
// Ignored when WithSession is also given.
func WithFetcher(f schema.Fetcher) Option {
	return func(cfg *validateConfig) error {
		if f == nil {
			return &stacerrors.ConfigError{Option: "WithFetcher", Message: "fetcher must not be nil"}
		}
		cfg.fetcher = f
		return nil
	}
}

// WithLogger sets the logger for the run.
func WithLogger(l schema.Logger) Option {
	return func(cfg *validateConfig) error {
		if l == nil {
			return &stacerrors.ConfigError{Option: "WithLogger", Message: "logger must not be nil"}
		}
		cfg.logger = l
		return nil
	}
}

// WithFormat registers a strict format validator for the run; failures are
// reported as errors.
func WithFormat(name string, fn FormatValidator) Option {
	return func(cfg *validateConfig) error {
		if fn == nil {
			return &stacerrors.ConfigError{Option: "WithFormat", Value: name, Message: "validator must not be nil"}
		}
		if cfg.formats == nil {
			cfg.formats = make(map[string]FormatValidator)
		}
		cfg.formats[name] = fn
		return nil
	}
}

// ValidateWithOptions resolves a schema graph and validates one document
// instance against it.
//
// Hard failures — unfetchable or malformed schemas, reference cycles,
// invalid options — return a non-nil error and no Result. A non-conformant
// instance is NOT an error: the run succeeds and the violations are reported
// in Result.Errors.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithSchemaURI("https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"),
//	    validator.WithInstanceFile("item.json"),
//	)
func ValidateWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid options: %w", err)
	}

	instance, err := cfg.loadInstance()
	if err != nil {
		return nil, err
	}

	node := cfg.node
	schemaURI := cfg.schemaURI
	var compileTime time.Duration
	var documents int

	if node == nil {
		if schemaURI == "" {
			schemaURI, err = SchemaURIFor(instance)
			if err != nil {
				return nil, err
			}
			cfg.logger.Debug("detected schema for instance", "uri", schemaURI)
		}

		session := cfg.session
		if session == nil {
			sessionOpts := []schema.SessionOption{schema.WithLogger(cfg.logger)}
			if cfg.fetcher != nil {
				sessionOpts = append(sessionOpts, schema.WithFetcher(cfg.fetcher))
			}
			session, err = schema.NewSession(sessionOpts...)
			if err != nil {
				return nil, err
			}
		}

		start := time.Now()
		node, err = session.Compile(cfg.ctx, schemaURI)
		compileTime = time.Since(start)
		if err != nil {
			return nil, err
		}
		documents = session.DocumentCount()
	}

	start := time.Now()
	found := ValidateWithFormats(node, instance, cfg.formats)
	validateTime := time.Since(start)

	result := &Result{
		SchemaURI:       schemaURI,
		SchemaDocuments: documents,
		CompileTime:     compileTime,
		ValidateTime:    validateTime,
	}
	result.split(found)
	return result, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*validateConfig, error) {
	cfg := &validateConfig{
		ctx:    context.Background(),
		logger: schema.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireExactlyOne(
		"validator: must specify an instance source (use WithInstanceFile, WithInstanceBytes, WithInstanceReader, or WithInstance)",
		"validator: must specify exactly one instance source",
		cfg.instanceFile != nil, cfg.instanceBytes != nil, cfg.instanceReader != nil, cfg.hasInstanceValue,
	); err != nil {
		return nil, err
	}
	if err := options.RequireAtMostOne(
		"validator: WithSchemaURI and WithCompiledSchema are mutually exclusive",
		cfg.schemaURI != "", cfg.node != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadInstance materializes the configured instance source into a decoded
// JSON value tree.
func (cfg *validateConfig) loadInstance() (any, error) {
	switch {
	case cfg.hasInstanceValue:
		return cfg.instanceValue, nil

	case cfg.instanceFile != nil:
		data, err := os.ReadFile(*cfg.instanceFile)
		if err != nil {
			return nil, &stacerrors.ConfigError{Option: "WithInstanceFile", Value: *cfg.instanceFile, Cause: err}
		}
		switch strings.ToLower(filepath.Ext(*cfg.instanceFile)) {
		case ".yaml", ".yml":
			return decodeYAML(*cfg.instanceFile, data)
		default:
			return decodeJSON(*cfg.instanceFile, data)
		}

	case cfg.instanceReader != nil:
		data, err := io.ReadAll(cfg.instanceReader)
		if err != nil {
			return nil, &stacerrors.ConfigError{Option: "WithInstanceReader", Cause: err}
		}
		return decodeInstance("reader", data)

	default:
		return decodeInstance("bytes", cfg.instanceBytes)
	}
}

// decodeInstance sniffs JSON vs YAML by the first significant byte.
func decodeInstance(source string, data []byte) (any, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return decodeJSON(source, data)
	}
	return decodeYAML(source, data)
}

func decodeJSON(source string, data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &stacerrors.ParseError{URI: source, Message: "malformed instance JSON", Cause: err}
	}
	return v, nil
}

func decodeYAML(source string, data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &stacerrors.ParseError{URI: source, Message: "malformed instance YAML", Cause: err}
	}
	return v, nil
}
