// Package config reads and writes form-fill documents. Loading runs three
// ordered stages: generic parse, environment interpolation, then validation,
// so an unset ${VAR} is reported before any structural complaint about the
// document it appears in.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"formfill/internal/domain/entity"
)

var (
	ErrMissingField         = errors.New("missing required field")
	ErrMissingFieldProperty = errors.New("field missing required property")
	ErrEnvNotFound          = errors.New("environment variable not found")
	ErrUnsupportedFormat    = errors.New("unsupported config format")
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// EnvLookup resolves the value for an environment variable.
type EnvLookup func(key string) (string, bool)

type loadOptions struct {
	envLookup EnvLookup
	readFile  func(string) ([]byte, error)
}

// Option adjusts how a document is loaded, primarily for tests.
type Option func(*loadOptions)

// WithEnvLookup replaces os.LookupEnv as the source for ${VAR} interpolation.
func WithEnvLookup(lookup EnvLookup) Option {
	return func(o *loadOptions) {
		o.envLookup = lookup
	}
}

// WithFileReader injects a custom reader instead of os.ReadFile.
func WithFileReader(reader func(string) ([]byte, error)) Option {
	return func(o *loadOptions) {
		o.readFile = reader
	}
}

func newLoadOptions(opts []Option) loadOptions {
	options := loadOptions{
		envLookup: os.LookupEnv,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Load dispatches on the file extension: .yaml/.yml or .json.
func Load(path string, opts ...Option) (*entity.FormConfig, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path, opts...)
	case ".json":
		return LoadJSON(path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadYAML reads a YAML document, interpolates ${VAR} references and builds
// a validated FormConfig.
func LoadYAML(path string, opts ...Option) (*entity.FormConfig, error) {
	options := newLoadOptions(opts)

	data, err := options.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return buildConfig(doc, options.envLookup)
}

// LoadJSON reads a JSON document, interpolates ${VAR} references and builds
// a validated FormConfig. Numbers are decoded with UseNumber so integer
// values keep their kind.
func LoadJSON(path string, opts ...Option) (*entity.FormConfig, error) {
	options := newLoadOptions(opts)

	data, err := options.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	return buildConfig(doc, options.envLookup)
}

func buildConfig(doc any, lookup EnvLookup) (*entity.FormConfig, error) {
	substituted, err := substituteEnv(doc, lookup)
	if err != nil {
		return nil, err
	}

	root, ok := substituted.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: document is not a mapping", ErrMissingField)
	}

	if err := validateDocument(root); err != nil {
		return nil, err
	}

	return configFromDocument(root)
}

// substituteEnv walks the decoded document and expands ${VAR} inside every
// string scalar. Any reference to an unset variable fails the load.
func substituteEnv(v any, lookup EnvLookup) (any, error) {
	switch x := v.(type) {
	case string:
		return expandString(x, lookup)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			expanded, err := substituteEnv(val, lookup)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			expanded, err := substituteEnv(val, lookup)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

func expandString(s string, lookup EnvLookup) (string, error) {
	var missing string
	expanded := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		value, ok := lookup(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return value
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %s", ErrEnvNotFound, missing)
	}
	return expanded, nil
}

// validateDocument checks the untyped document for the required keys before
// model construction, so a missing key is reported by name rather than as a
// zero-value semantic error.
func validateDocument(root map[string]any) error {
	if _, ok := root["url"]; !ok {
		return fmt.Errorf("%w: url", ErrMissingField)
	}
	rawFields, ok := root["fields"]
	if !ok {
		return fmt.Errorf("%w: fields", ErrMissingField)
	}
	fields, ok := rawFields.([]any)
	if !ok {
		return fmt.Errorf("%w: fields must be a sequence", ErrMissingField)
	}
	for i, rawField := range fields {
		field, ok := rawField.(map[string]any)
		if !ok {
			return fmt.Errorf("field %d: %w: value", i, ErrMissingFieldProperty)
		}
		if _, ok := field["value"]; !ok {
			return fmt.Errorf("field %d: %w: value", i, ErrMissingFieldProperty)
		}
	}
	return nil
}

func configFromDocument(root map[string]any) (*entity.FormConfig, error) {
	rawFields := root["fields"].([]any)
	fields := make([]entity.FormField, 0, len(rawFields))
	for i, rawField := range rawFields {
		doc := rawField.(map[string]any)

		value, err := entity.ValueOf(doc["value"])
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		field, err := entity.NewFormField(
			stringAt(doc, "selector"),
			value,
			entity.SelectorType(stringAt(doc, "selector_type")),
			entity.FieldType(stringAt(doc, "field_type")),
		)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		fields = append(fields, field)
	}

	var opts []entity.ConfigOption
	if submit := stringAt(root, "submit_selector"); submit != "" {
		opts = append(opts, entity.WithSubmit(submit, entity.SelectorType(stringAt(root, "submit_selector_type"))))
	}
	if raw, ok := root["wait_after_fill"]; ok {
		wait, err := floatValue(raw)
		if err != nil {
			return nil, fmt.Errorf("wait_after_fill: %w", err)
		}
		opts = append(opts, entity.WithWaitAfterFill(wait))
	}
	if path := stringAt(root, "screenshot_path"); path != "" {
		opts = append(opts, entity.WithScreenshotPath(path))
	}

	return entity.NewFormConfig(stringAt(root, "url"), fields, opts...)
}

func stringAt(doc map[string]any, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func floatValue(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case json.Number:
		return x.Float64()
	default:
		return 0, fmt.Errorf("%w: %T", entity.ErrInvalidValueType, v)
	}
}
