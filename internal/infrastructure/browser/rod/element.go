package rod

import (
	"context"
	"fmt"
	"time"

	"formfill/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.ElementPort = (*elementHandle)(nil)

// elementHandle wraps a resolved rod element. Handles stay valid until the
// page navigates away.
type elementHandle struct {
	el   *rod.Element
	page *rod.Page
}

// SetValue clears the current content by selecting it all before typing the
// replacement, so refilling a pre-populated input never appends.
func (h *elementHandle) SetValue(ctx context.Context, text string) error {
	if err := h.el.SelectAllText(); err == nil {
		_ = h.el.Input("")
	}
	if err := h.el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

// SelectOption picks the option whose value attribute matches.
func (h *elementHandle) SelectOption(ctx context.Context, value string) error {
	selector := fmt.Sprintf(`option[value=%q]`, value)
	if err := h.el.Select([]string{selector}, true, rod.SelectorTypeCSSSector); err != nil {
		return fmt.Errorf("select option %q: %w", value, err)
	}
	return nil
}

// SetChecked clicks only when the current state differs, so re-running the
// same config never toggles a box back off.
func (h *elementHandle) SetChecked(ctx context.Context, checked bool) error {
	current, err := h.IsChecked(ctx)
	if err != nil {
		return err
	}
	if current == checked {
		return nil
	}
	if err := h.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (h *elementHandle) IsChecked(ctx context.Context) (bool, error) {
	prop, err := h.el.Property("checked")
	if err != nil {
		return false, fmt.Errorf("read checked property: %w", err)
	}
	return prop.Bool(), nil
}

func (h *elementHandle) Click(ctx context.Context) error {
	if err := h.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	h.page.WaitIdle(2 * time.Second)
	return nil
}

func (h *elementHandle) Value(ctx context.Context) (string, error) {
	prop, err := h.el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read value property: %w", err)
	}
	return prop.String(), nil
}
