package di

import (
	"context"
	"fmt"
	"time"

	"formfill/internal/application/port/input"
	"formfill/internal/application/port/output"
	"formfill/internal/infrastructure/browser/rod"
	"formfill/internal/infrastructure/logger"
	"formfill/internal/usecase/filler"
	"formfill/internal/usecase/inspector"
)

type Container struct {
	Browser   output.BrowserPort
	Logger    output.LoggerPort
	Filler    input.FormFiller
	Inspector input.PageInspector
}

type Config struct {
	BrowserHeadless       bool
	BrowserTimeout        time.Duration
	SlowMotion            time.Duration
	NoSandbox             bool
	ScreenshotMaxWidth    int
	ScreenshotJPEGQuality int
	Verbose               bool
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	browserCfg.SlowMotion = cfg.SlowMotion
	browserCfg.NoSandbox = cfg.NoSandbox
	browserCfg.ScreenshotMaxWidth = cfg.ScreenshotMaxWidth
	if cfg.BrowserTimeout > 0 {
		browserCfg.Timeout = cfg.BrowserTimeout
	}
	if cfg.ScreenshotJPEGQuality > 0 {
		browserCfg.ScreenshotJPEGQuality = cfg.ScreenshotJPEGQuality
	}

	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	return &Container{
		Browser:   browser,
		Logger:    log,
		Filler:    filler.New(browser, log),
		Inspector: inspector.New(browser, log),
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
