package entity

import (
	"fmt"
	"net/url"
	"time"
)

// FormConfig describes one complete fill run: target page, fields in the
// order they must be applied, and the optional submit/wait/screenshot steps.
type FormConfig struct {
	URL                string       `yaml:"url" json:"url"`
	Fields             []FormField  `yaml:"fields" json:"fields"`
	SubmitSelector     string       `yaml:"submit_selector,omitempty" json:"submit_selector,omitempty"`
	SubmitSelectorType SelectorType `yaml:"submit_selector_type,omitempty" json:"submit_selector_type,omitempty"`
	WaitAfterFill      float64      `yaml:"wait_after_fill,omitempty" json:"wait_after_fill,omitempty"`
	ScreenshotPath     string       `yaml:"screenshot_path,omitempty" json:"screenshot_path,omitempty"`
}

// ConfigOption sets an optional attribute on a FormConfig under construction.
type ConfigOption func(*FormConfig)

func WithSubmit(selector string, selType SelectorType) ConfigOption {
	return func(c *FormConfig) {
		c.SubmitSelector = selector
		c.SubmitSelectorType = selType
	}
}

func WithWaitAfterFill(seconds float64) ConfigOption {
	return func(c *FormConfig) { c.WaitAfterFill = seconds }
}

func WithScreenshotPath(path string) ConfigOption {
	return func(c *FormConfig) { c.ScreenshotPath = path }
}

// NewFormConfig builds and validates a configuration, failing fast on any
// invariant violation.
func NewFormConfig(rawURL string, fields []FormField, opts ...ConfigOption) (*FormConfig, error) {
	cfg := &FormConfig{URL: rawURL, Fields: fields}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills the submit selector type when a submit selector is
// configured without one.
func (c *FormConfig) ApplyDefaults() {
	if c.SubmitSelector != "" && c.SubmitSelectorType == "" {
		c.SubmitSelectorType = SelectorID
	}
}

func (c *FormConfig) Validate() error {
	if c.URL == "" {
		return ErrEmptyURL
	}
	if u, err := url.Parse(c.URL); err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.URL)
	}
	if len(c.Fields) == 0 {
		return ErrNoFields
	}
	for i, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	if c.WaitAfterFill < 0 {
		return ErrNegativeWait
	}
	if c.SubmitSelectorType != "" && !c.SubmitSelectorType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSelectorType, string(c.SubmitSelectorType))
	}
	return nil
}

// WaitDuration converts the document-level seconds into a time.Duration.
func (c *FormConfig) WaitDuration() time.Duration {
	return time.Duration(c.WaitAfterFill * float64(time.Second))
}
