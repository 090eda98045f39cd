package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"formfill/internal/application/port/output"
	"formfill/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

var (
	ErrBrowserNotConnected = errors.New("browser not connected")
	ErrInvalidURL          = errors.New("invalid navigation url")
	ErrInvalidSelector     = errors.New("invalid selector")
)

const (
	defaultTimeout     = 10 * time.Second
	defaultJPEGQuality = 80
)

// BrowserAdapter drives a Chromium instance through go-rod. One adapter
// owns one page; element lookups are bounded by the configured timeout, so
// a selector that never appears surfaces as ErrElementNotFound instead of
// hanging the run.
type BrowserAdapter struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	page        *rod.Page
	timeout     time.Duration
	maxWidth    int
	jpegQuality int
	closed      bool
}

type BrowserConfig struct {
	Headless                bool
	SlowMotion              time.Duration
	Timeout                 time.Duration
	NoSandbox               bool
	DevTools                bool
	DisableSecurityFeatures bool

	// ScreenshotMaxWidth downscales captures wider than this; zero keeps
	// the native size.
	ScreenshotMaxWidth    int
	ScreenshotJPEGQuality int
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:              true,
		SlowMotion:            0,
		Timeout:               defaultTimeout,
		NoSandbox:             false,
		DevTools:              false,
		ScreenshotJPEGQuality: defaultJPEGQuality,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ScreenshotJPEGQuality <= 0 {
		cfg.ScreenshotJPEGQuality = defaultJPEGQuality
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox)

	if cfg.DisableSecurityFeatures {
		l = l.Delete("use-mock-keychain").
			Set("disable-web-security").
			Set("allow-running-insecure-content").
			Set("disable-setuid-sandbox")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)

	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:     browser,
		launcher:    l,
		page:        page,
		timeout:     cfg.Timeout,
		maxWidth:    cfg.ScreenshotMaxWidth,
		jpegQuality: cfg.ScreenshotJPEGQuality,
	}, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if b.closed {
		return ErrBrowserNotConnected
	}
	if err := validateNavigationURL(rawURL); err != nil {
		return err
	}

	if err := b.page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := b.page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	b.page.WaitIdle(5 * time.Second)
	return nil
}

// Find resolves a selector to a live element handle. The lookup waits up to
// the adapter timeout for the element to appear.
func (b *BrowserAdapter) Find(ctx context.Context, selector string, selType entity.SelectorType) (output.ElementPort, error) {
	if b.closed {
		return nil, ErrBrowserNotConnected
	}
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}

	var el *rod.Element
	var err error
	switch selType {
	case entity.SelectorXPath:
		el, err = b.page.Timeout(b.timeout).ElementX(selector)
	case entity.SelectorID, entity.SelectorName, entity.SelectorCSS:
		el, err = b.page.Timeout(b.timeout).Element(cssFor(selector, selType))
	default:
		return nil, fmt.Errorf("%w: unknown selector type %q", ErrInvalidSelector, string(selType))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %v", output.ErrElementNotFound, selType, selector, err)
	}

	return &elementHandle{el: el, page: b.page}, nil
}

func (b *BrowserAdapter) PageHTML(ctx context.Context) (string, error) {
	if b.closed {
		return "", ErrBrowserNotConnected
	}
	html, err := b.page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

// CaptureScreenshot writes a full-page capture to path. The format follows
// the extension: .jpg/.jpeg produce JPEG, everything else PNG.
func (b *BrowserAdapter) CaptureScreenshot(ctx context.Context, path string) error {
	if b.closed {
		return ErrBrowserNotConnected
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("screenshot path cannot be empty")
	}

	asJPEG := isJPEGPath(path)
	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	if asJPEG {
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		req.Quality = gson.Int(b.jpegQuality)
	}

	data, err := b.page.Screenshot(true, req)
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}

	if b.maxWidth > 0 {
		data, err = downscale(data, b.maxWidth, asJPEG, b.jpegQuality)
		if err != nil {
			return fmt.Errorf("resize screenshot: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL() string {
	if b.closed {
		return ""
	}
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) IsReady() bool {
	return !b.closed && b.browser != nil && b.page != nil
}

func (b *BrowserAdapter) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	b.timeout = timeout
}

func (b *BrowserAdapter) GetTimeout() time.Duration {
	return b.timeout
}

func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// cssFor translates id and name selectors into attribute selectors; css
// selectors pass through untouched.
func cssFor(selector string, selType entity.SelectorType) string {
	switch selType {
	case entity.SelectorID:
		return fmt.Sprintf(`[id=%q]`, selector)
	case entity.SelectorName:
		return fmt.Sprintf(`[name=%q]`, selector)
	default:
		return selector
	}
}

func validateNavigationURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}
	switch u.Scheme {
	case "http", "https", "file", "about":
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
}

func isJPEGPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jpg" || ext == ".jpeg"
}
