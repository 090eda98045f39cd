package filler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formfill/internal/application/port/output"
	"formfill/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

type fakeElement struct {
	textSet    []string
	selected   []string
	checked    bool
	checkedSet bool
	clicks     int
	failWith   error
}

func (f *fakeElement) SetValue(_ context.Context, text string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.textSet = append(f.textSet, text)
	return nil
}

func (f *fakeElement) SelectOption(_ context.Context, value string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.selected = append(f.selected, value)
	return nil
}

func (f *fakeElement) SetChecked(_ context.Context, checked bool) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.checked = checked
	f.checkedSet = true
	return nil
}

func (f *fakeElement) IsChecked(context.Context) (bool, error) { return f.checked, nil }

func (f *fakeElement) Click(context.Context) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.clicks++
	return nil
}

func (f *fakeElement) Value(context.Context) (string, error) {
	if len(f.textSet) == 0 {
		return "", nil
	}
	return f.textSet[len(f.textSet)-1], nil
}

// fakeBrowser resolves selectors against a fixed element map and records
// every operation in order.
type fakeBrowser struct {
	elements      map[string]*fakeElement
	navigateErr   error
	screenshotErr error
	ops           []string
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	if f.navigateErr != nil {
		return f.navigateErr
	}
	f.ops = append(f.ops, "navigate:"+url)
	return nil
}

func (f *fakeBrowser) Find(_ context.Context, selector string, _ entity.SelectorType) (output.ElementPort, error) {
	f.ops = append(f.ops, "find:"+selector)
	el, ok := f.elements[selector]
	if !ok {
		return nil, fmt.Errorf("%w: %s", output.ErrElementNotFound, selector)
	}
	return el, nil
}

func (f *fakeBrowser) PageHTML(context.Context) (string, error) { return "", nil }

func (f *fakeBrowser) CaptureScreenshot(_ context.Context, path string) error {
	if f.screenshotErr != nil {
		return f.screenshotErr
	}
	f.ops = append(f.ops, "screenshot:"+path)
	return nil
}

func (f *fakeBrowser) CurrentURL() string { return "" }
func (f *fakeBrowser) Close()             {}

func newBrowserWith(selectors ...string) *fakeBrowser {
	elements := make(map[string]*fakeElement, len(selectors))
	for _, s := range selectors {
		elements[s] = &fakeElement{}
	}
	return &fakeBrowser{elements: elements}
}

func mustConfig(t *testing.T, url string, fields []entity.FormField, opts ...entity.ConfigOption) *entity.FormConfig {
	t.Helper()
	cfg, err := entity.NewFormConfig(url, fields, opts...)
	require.NoError(t, err)
	return cfg
}

func field(selector string, value entity.FieldValue, fieldType entity.FieldType) entity.FormField {
	return entity.FormField{
		Selector:     selector,
		Value:        value,
		SelectorType: entity.SelectorID,
		FieldType:    fieldType,
	}
}

func TestFill_TextInput(t *testing.T) {
	browser := newBrowserWith("text_input")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("text_input", entity.StringValue("Test Text"), entity.FieldInput),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"text_input"}, result.FilledFields)
	assert.Empty(t, result.Errors)
	assert.False(t, result.Submitted)
	assert.Equal(t, []string{"Test Text"}, browser.elements["text_input"].textSet)
}

func TestFill_AllFieldKinds(t *testing.T) {
	browser := newBrowserWith("name", "bio", "country", "newsletter", "choice")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("name", entity.StringValue("John Doe"), entity.FieldInput),
		field("bio", entity.StringValue("hello"), entity.FieldTextarea),
		field("country", entity.StringValue("option2"), entity.FieldSelect),
		field("newsletter", entity.BoolValue(true), entity.FieldCheckbox),
		field("choice", entity.BoolValue(true), entity.FieldRadio),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Len(t, result.FilledFields, 5)

	assert.Equal(t, []string{"John Doe"}, browser.elements["name"].textSet)
	assert.Equal(t, []string{"hello"}, browser.elements["bio"].textSet)
	assert.Equal(t, []string{"option2"}, browser.elements["country"].selected)
	assert.True(t, browser.elements["newsletter"].checked)
	assert.True(t, browser.elements["choice"].checked)
}

func TestFill_IntValueCoercion(t *testing.T) {
	browser := newBrowserWith("age")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("age", entity.IntValue(42), entity.FieldInput),
	})

	_, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"42"}, browser.elements["age"].textSet)
}

func TestFill_StringBoolOnCheckbox(t *testing.T) {
	browser := newBrowserWith("agree")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("agree", entity.StringValue("true"), entity.FieldCheckbox),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, browser.elements["agree"].checked)
}

func TestFill_FieldOrder(t *testing.T) {
	browser := newBrowserWith("first", "second", "third")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("first", entity.StringValue("1"), entity.FieldInput),
		field("second", entity.StringValue("2"), entity.FieldInput),
		field("third", entity.StringValue("3"), entity.FieldInput),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, result.FilledFields)
	assert.Equal(t, []string{
		"navigate:https://example.com/form",
		"find:first",
		"find:second",
		"find:third",
	}, browser.ops)
}

func TestFill_ElementNotFound(t *testing.T) {
	browser := newBrowserWith("present")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("nonexistent_field", entity.StringValue("test"), entity.FieldInput),
		field("present", entity.StringValue("still filled"), entity.FieldInput),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Element not found: nonexistent_field", result.Errors[0])

	// The miss must not stop the remaining fields.
	assert.Equal(t, []string{"present"}, result.FilledFields)
	assert.Equal(t, []string{"still filled"}, browser.elements["present"].textSet)
}

func TestFill_ApplyValueError(t *testing.T) {
	browser := newBrowserWith("broken", "fine")
	browser.elements["broken"].failWith = errors.New("input rejected")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("broken", entity.StringValue("x"), entity.FieldInput),
		field("fine", entity.StringValue("y"), entity.FieldInput),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken")
	assert.Contains(t, result.Errors[0], "input rejected")
	assert.Equal(t, []string{"fine"}, result.FilledFields)
}

func TestFill_NavigationFailure(t *testing.T) {
	browser := newBrowserWith()
	browser.navigateErr = errors.New("connection refused")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("a", entity.StringValue("x"), entity.FieldInput),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFill_InvalidConfig(t *testing.T) {
	uc := New(newBrowserWith(), nopLogger{})

	cfg := &entity.FormConfig{URL: "https://example.com"}

	result, err := uc.Fill(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, entity.ErrNoFields)
}

func TestFill_Submit(t *testing.T) {
	browser := newBrowserWith("text_input", "submit_btn")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form",
		[]entity.FormField{field("text_input", entity.StringValue("Test"), entity.FieldInput)},
		entity.WithSubmit("submit_btn", entity.SelectorID),
	)

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.Submitted)
	assert.Equal(t, 1, browser.elements["submit_btn"].clicks)
}

func TestFill_SubmitNotFound(t *testing.T) {
	browser := newBrowserWith("text_input")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form",
		[]entity.FormField{field("text_input", entity.StringValue("Test"), entity.FieldInput)},
		entity.WithSubmit("missing_btn", entity.SelectorID),
	)

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	// A failed submit is reported but does not fail a fill whose fields
	// all landed.
	assert.True(t, result.Success)
	assert.False(t, result.Submitted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "missing_btn")
}

func TestFill_Screenshots(t *testing.T) {
	browser := newBrowserWith("text_input")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form",
		[]entity.FormField{field("text_input", entity.StringValue("Test"), entity.FieldInput)},
		entity.WithScreenshotPath("shots/run"),
	)

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{
		"navigate:https://example.com/form",
		"screenshot:shots/run_before.png",
		"find:text_input",
		"screenshot:shots/run_after.png",
	}, browser.ops)
}

func TestFill_ScreenshotFailure(t *testing.T) {
	browser := newBrowserWith("text_input")
	browser.screenshotErr = errors.New("disk full")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form",
		[]entity.FormField{field("text_input", entity.StringValue("Test"), entity.FieldInput)},
		entity.WithScreenshotPath("shots/run"),
	)

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 2, "before and after failures both recorded")
	assert.Equal(t, []string{"text_input"}, result.FilledFields)
}

func TestFill_CanceledDuringWait(t *testing.T) {
	browser := newBrowserWith("text_input")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form",
		[]entity.FormField{field("text_input", entity.StringValue("Test"), entity.FieldInput)},
		entity.WithWaitAfterFill(3600),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Fill(ctx, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFill_ErrorsSliceNeverNil(t *testing.T) {
	browser := newBrowserWith("text_input")
	uc := New(browser, nopLogger{})

	cfg := mustConfig(t, "https://example.com/form", []entity.FormField{
		field("text_input", entity.StringValue("Test"), entity.FieldInput),
	})

	result, err := uc.Fill(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotNil(t, result.Errors)
	assert.NotNil(t, result.FilledFields)
}

func TestApplyValue_UnknownKind(t *testing.T) {
	el := &fakeElement{}
	f := entity.FormField{
		Selector:  "x",
		Value:     entity.StringValue("v"),
		FieldType: entity.FieldType("button"),
	}

	err := applyValue(context.Background(), el, f)
	assert.ErrorIs(t, err, entity.ErrInvalidFieldType)
}
