// Package filler applies a validated form configuration to a live page
// through the browser port. Field failures are collected, not fatal: one
// missing element must not stop the rest of the form.
package filler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formfill/internal/application/port/input"
	"formfill/internal/application/port/output"
	"formfill/internal/domain/entity"
)

var _ input.FormFiller = (*UseCase)(nil)

type UseCase struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func New(browser output.BrowserPort, logger output.LoggerPort) *UseCase {
	return &UseCase{
		browser: browser,
		logger:  logger,
	}
}

// Fill navigates to the configured URL and applies every field in declared
// order, then waits, submits and captures screenshots as configured. Only
// navigation failure and context cancellation abort the run; everything
// else lands in the result.
func (u *UseCase) Fill(ctx context.Context, cfg *entity.FormConfig) (*entity.FillResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	u.logger.Info("Filling form", "url", cfg.URL, "fields", len(cfg.Fields))

	if err := u.browser.Navigate(ctx, cfg.URL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", cfg.URL, err)
	}

	result := entity.NewFillResult()

	if cfg.ScreenshotPath != "" {
		u.capture(ctx, cfg.ScreenshotPath+"_before.png", result)
	}

	for _, field := range cfg.Fields {
		u.fillField(ctx, field, result)
	}

	if cfg.WaitAfterFill > 0 {
		if err := sleep(ctx, cfg.WaitDuration()); err != nil {
			return nil, err
		}
	}

	if cfg.SubmitSelector != "" {
		u.submit(ctx, cfg, result)
	}

	if cfg.ScreenshotPath != "" {
		u.capture(ctx, cfg.ScreenshotPath+"_after.png", result)
	}

	u.logger.Info("Fill finished",
		"success", result.Success,
		"filled", len(result.FilledFields),
		"errors", len(result.Errors),
		"submitted", result.Submitted)

	return result, nil
}

func (u *UseCase) fillField(ctx context.Context, field entity.FormField, result *entity.FillResult) {
	log := u.logger.WithFields(map[string]any{
		"selector": field.Selector,
		"type":     string(field.FieldType),
	})

	el, err := u.browser.Find(ctx, field.Selector, field.SelectorType)
	if err != nil {
		if errors.Is(err, output.ErrElementNotFound) {
			log.Warn("Element not found")
			result.RecordError(fmt.Sprintf("Element not found: %s", field.Selector))
		} else {
			log.Error("Element lookup failed", "error", err)
			result.RecordError(fmt.Sprintf("Failed to locate %s: %v", field.Selector, err))
		}
		return
	}

	if err := applyValue(ctx, el, field); err != nil {
		log.Error("Failed to apply value", "error", err)
		result.RecordError(fmt.Sprintf("Failed to fill %s: %v", field.Selector, err))
		return
	}

	log.Debug("Field filled")
	result.RecordFilled(field.Selector)
}

// applyValue dispatches on the field kind. The switch is exhaustive over
// the declared kinds; validation upstream guarantees the default is
// unreachable for well-formed configs.
func applyValue(ctx context.Context, el output.ElementPort, field entity.FormField) error {
	switch field.FieldType {
	case entity.FieldInput, entity.FieldTextarea:
		return el.SetValue(ctx, field.Value.Text())
	case entity.FieldSelect:
		return el.SelectOption(ctx, field.Value.Text())
	case entity.FieldCheckbox, entity.FieldRadio:
		checked, err := field.Value.Bool()
		if err != nil {
			return err
		}
		return el.SetChecked(ctx, checked)
	default:
		return fmt.Errorf("%w: %q", entity.ErrInvalidFieldType, string(field.FieldType))
	}
}

// submit is best-effort: a missing or unclickable submit element is
// recorded but does not fail a fill whose fields all landed.
func (u *UseCase) submit(ctx context.Context, cfg *entity.FormConfig, result *entity.FillResult) {
	selType := cfg.SubmitSelectorType
	if selType == "" {
		selType = entity.SelectorID
	}

	el, err := u.browser.Find(ctx, cfg.SubmitSelector, selType)
	if err != nil {
		u.logger.Warn("Submit element not found", "selector", cfg.SubmitSelector, "error", err)
		result.RecordWarning(fmt.Sprintf("Submit element not found: %s", cfg.SubmitSelector))
		return
	}

	if err := el.Click(ctx); err != nil {
		u.logger.Warn("Submit click failed", "selector", cfg.SubmitSelector, "error", err)
		result.RecordWarning(fmt.Sprintf("Submit failed: %v", err))
		return
	}

	result.Submitted = true
	u.logger.Info("Form submitted", "selector", cfg.SubmitSelector)
}

func (u *UseCase) capture(ctx context.Context, path string, result *entity.FillResult) {
	if err := u.browser.CaptureScreenshot(ctx, path); err != nil {
		u.logger.Error("Screenshot failed", "path", path, "error", err)
		result.RecordError(fmt.Sprintf("Screenshot failed: %s: %v", path, err))
		return
	}
	u.logger.Debug("Screenshot captured", "path", path)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
