package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dshills/bufstream/internal/config/loader"
	"github.com/dshills/bufstream/internal/encoding/charset"
	"github.com/dshills/bufstream/internal/stream"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "BUFSTREAM_"

// NewlineAuto selects the line break that is most common in the buffer.
const NewlineAuto = "auto"

// Settings are the resolved export settings.
type Settings struct {
	Charset             string
	Newline             string // NewlineAuto or a name accepted by stream.ParseNewline
	TrailingNewline     bool
	BOM                 bool
	ChunkSize           int
	ConverterBufferSize int
	LogLevel            string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Charset:             charset.UTF8,
		Newline:             "lf",
		ChunkSize:           stream.DefaultChunkSize,
		ConverterBufferSize: charset.DefaultBufferSize,
		LogLevel:            "info",
	}
}

// Validate reports the first setting that cannot be used.
func (s Settings) Validate() error {
	if _, err := charset.Canonical(s.Charset); err != nil {
		return &ValidationError{Path: "export.charset", Message: err.Error(), Value: s.Charset}
	}
	if !strings.EqualFold(s.Newline, NewlineAuto) {
		if _, err := stream.ParseNewline(s.Newline); err != nil {
			return &ValidationError{Path: "export.newline", Message: "must be lf, cr, crlf or auto", Value: s.Newline}
		}
	}
	if s.ChunkSize <= 0 {
		return &ValidationError{Path: "export.chunkSize", Message: "must be positive", Value: s.ChunkSize}
	}
	if s.ConverterBufferSize < charset.MinBufferSize {
		return &ValidationError{
			Path:    "export.converterBufferSize",
			Message: fmt.Sprintf("must be at least %d", charset.MinBufferSize),
			Value:   s.ConverterBufferSize,
		}
	}
	if _, err := s.Level(); err != nil {
		return &ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: s.LogLevel}
	}
	return nil
}

// NewlineType returns the configured newline type. ok is false when the
// newline is NewlineAuto and has to be detected from the buffer.
func (s Settings) NewlineType() (n stream.NewlineType, ok bool, err error) {
	if strings.EqualFold(s.Newline, NewlineAuto) {
		return stream.NewlineLF, false, nil
	}
	n, err = stream.ParseNewline(s.Newline)
	if err != nil {
		return n, false, err
	}
	return n, true, nil
}

// Level returns the configured log level.
func (s Settings) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s.LogLevel))
	return level, err
}

// Config merges defaults, an optional settings file and the environment.
type Config struct {
	mu sync.RWMutex

	data map[string]any

	fs        loader.FileSystem
	path      string
	envPrefix string
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the settings file. A missing file is not an error.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFS sets the file system the settings file is read from.
func WithFS(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix changes the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// New creates a new Config instance with the given options. It holds the
// defaults until Load is called.
func New(opts ...Option) *Config {
	c := &Config{
		data:      defaultConfig(),
		fs:        loader.DefaultFS(),
		envPrefix: EnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load loads configuration from all sources.
func (c *Config) Load(ctx context.Context) error {
	data := defaultConfig()

	if c.path != "" {
		file, err := loader.ForPath(c.fs, c.path).Load()
		if err != nil {
			return err
		}
		data = loader.DeepMerge(data, file)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if c.envPrefix != "" {
		env, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		data = loader.DeepMerge(data, env)
	}

	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
	return nil
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return getPath(c.data, path)
}

// Set overrides the value at the given path.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return setPath(c.data, path, value)
}

// GetString returns a string value at the given path. Integers are
// formatted, since the environment layer cannot tell "1252" from 1252.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case int, int64:
		return fmt.Sprint(val), nil
	default:
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Settings decodes and validates the merged configuration.
func (c *Config) Settings() (Settings, error) {
	var s Settings
	var err error

	if s.Charset, err = c.GetString("export.charset"); err != nil {
		return Settings{}, err
	}
	if s.Newline, err = c.GetString("export.newline"); err != nil {
		return Settings{}, err
	}
	if s.TrailingNewline, err = c.GetBool("export.trailingNewline"); err != nil {
		return Settings{}, err
	}
	if s.BOM, err = c.GetBool("export.bom"); err != nil {
		return Settings{}, err
	}
	if s.ChunkSize, err = c.GetInt("export.chunkSize"); err != nil {
		return Settings{}, err
	}
	if s.ConverterBufferSize, err = c.GetInt("export.converterBufferSize"); err != nil {
		return Settings{}, err
	}
	if s.LogLevel, err = c.GetString("log.level"); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// defaultConfig returns Default as a nested map.
func defaultConfig() map[string]any {
	d := Default()
	return map[string]any{
		"export": map[string]any{
			"charset":             d.Charset,
			"newline":             d.Newline,
			"trailingNewline":     d.TrailingNewline,
			"bom":                 d.BOM,
			"chunkSize":           d.ChunkSize,
			"converterBufferSize": d.ConverterBufferSize,
		},
		"log": map[string]any{
			"level": d.LogLevel,
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}

	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into parts, dropping empty ones.
func splitPath(path string) []string {
	var parts []string
	for _, part := range strings.Split(path, ".") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}
