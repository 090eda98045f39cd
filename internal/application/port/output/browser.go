package output

import (
	"context"
	"errors"

	"formfill/internal/domain/entity"
)

// ErrElementNotFound is returned by Find when no element matches the
// selector within the driver's timeout. Adapters wrap it with the selector
// detail so callers can match with errors.Is and still read which lookup
// failed.
var ErrElementNotFound = errors.New("element not found")

type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	Find(ctx context.Context, selector string, selType entity.SelectorType) (ElementPort, error)

	PageHTML(ctx context.Context) (string, error)
	CaptureScreenshot(ctx context.Context, path string) error

	CurrentURL() string
	Close()
}

type ElementPort interface {
	SetValue(ctx context.Context, text string) error
	SelectOption(ctx context.Context, value string) error
	SetChecked(ctx context.Context, checked bool) error
	IsChecked(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	Value(ctx context.Context) (string, error)
}
