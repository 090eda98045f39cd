// Package inspector discovers form controls on a live page and can
// scaffold a starter fill configuration from them.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"formfill/internal/application/port/input"
	"formfill/internal/application/port/output"
	"formfill/internal/domain/entity"
)

// ErrNoControls is returned by Scaffold when the page has nothing to fill.
var ErrNoControls = errors.New("no form controls found")

var _ input.PageInspector = (*UseCase)(nil)

// UseCase walks the DOM of a rendered page and reports the controls a
// fill configuration could target.
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

// Inspect navigates to url and returns every fillable control plus any
// submit candidates found in the rendered HTML.
func (uc *UseCase) Inspect(ctx context.Context, url string) ([]entity.FormControl, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	uc.logger.Info("Inspecting page", "url", url)

	if err := uc.browser.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}

	rawHTML, err := uc.browser.PageHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}

	controls, err := parseControls(rawHTML)
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	uc.logger.Info("Inspection complete", "url", url, "controls", len(controls))
	return controls, nil
}

// Scaffold inspects url and turns the discovered controls into a
// FormConfig with placeholder values, ready to be edited and replayed.
// Radio buttons sharing a name collapse into a single field, and the
// first submit candidate becomes the submit selector.
func (uc *UseCase) Scaffold(ctx context.Context, url string) (*entity.FormConfig, error) {
	controls, err := uc.Inspect(ctx, url)
	if err != nil {
		return nil, err
	}

	var (
		fields     []entity.FormField
		opts       []entity.ConfigOption
		submitSet  bool
		radioGroup = make(map[string]bool)
	)

	for _, ctrl := range controls {
		if ctrl.Submit {
			if !submitSet {
				opts = append(opts, entity.WithSubmit(ctrl.Selector, ctrl.SelectorType))
				submitSet = true
			}
			continue
		}

		if ctrl.Kind == entity.FieldRadio && ctrl.Name != "" {
			if radioGroup[ctrl.Name] {
				continue
			}
			radioGroup[ctrl.Name] = true
		}

		fields = append(fields, entity.FormField{
			Selector:     ctrl.Selector,
			SelectorType: ctrl.SelectorType,
			FieldType:    ctrl.Kind,
			Value:        placeholderValue(ctrl),
		})
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoControls, url)
	}

	return entity.NewFormConfig(url, fields, opts...)
}

func parseControls(rawHTML string) ([]entity.FormControl, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	labels := labelTargets(doc)
	seen := make(map[string]bool)

	var controls []entity.FormControl
	var walk func(n *html.Node, enclosingLabel string)
	walk = func(n *html.Node, enclosingLabel string) {
		if n.Type == html.ElementNode {
			if n.Data == "label" {
				enclosingLabel = strings.TrimSpace(nodeText(n))
			}
			if ctrl, ok := controlFrom(n, enclosingLabel, labels); ok {
				key := string(ctrl.SelectorType) + ":" + ctrl.Selector
				if !seen[key] {
					seen[key] = true
					controls = append(controls, ctrl)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, enclosingLabel)
		}
	}
	walk(doc, "")

	return controls, nil
}

func controlFrom(n *html.Node, enclosingLabel string, labels map[string]string) (entity.FormControl, bool) {
	var (
		kind    entity.FieldType
		submit  bool
		options []string
	)

	switch n.Data {
	case "input":
		switch inputType(n) {
		case "hidden", "button", "reset":
			return entity.FormControl{}, false
		case "checkbox":
			kind = entity.FieldCheckbox
		case "radio":
			kind = entity.FieldRadio
		case "submit", "image":
			kind = entity.FieldInput
			submit = true
		default:
			kind = entity.FieldInput
		}
	case "textarea":
		kind = entity.FieldTextarea
	case "select":
		kind = entity.FieldSelect
		options = optionValues(n)
	case "button":
		if attrVal(n, "type") == "reset" {
			return entity.FormControl{}, false
		}
		kind = entity.FieldInput
		submit = true
	default:
		return entity.FormControl{}, false
	}

	id := attrVal(n, "id")
	name := attrVal(n, "name")

	ctrl := entity.FormControl{
		Kind:    kind,
		Name:    name,
		ID:      id,
		Options: options,
		Submit:  submit,
	}

	switch {
	case id != "":
		ctrl.Selector, ctrl.SelectorType = id, entity.SelectorID
	case name != "":
		ctrl.Selector, ctrl.SelectorType = name, entity.SelectorName
	default:
		ctrl.Selector, ctrl.SelectorType = cssPath(n), entity.SelectorCSS
	}

	label := enclosingLabel
	if id != "" && labels[id] != "" {
		label = labels[id]
	}

	// Buttons label themselves: element text for <button>, the value
	// attribute for input[type=submit].
	var ownText string
	switch {
	case n.Data == "button":
		ownText = nodeText(n)
	case submit:
		ownText = attrVal(n, "value")
	}

	ctrl.Label = firstNonEmpty(label, attrVal(n, "aria-label"), attrVal(n, "placeholder"), ownText)

	return ctrl, true
}

func placeholderValue(ctrl entity.FormControl) entity.FieldValue {
	switch ctrl.Kind {
	case entity.FieldCheckbox:
		return entity.BoolValue(false)
	case entity.FieldRadio:
		return entity.BoolValue(true)
	case entity.FieldSelect:
		for _, v := range ctrl.Options {
			if v != "" {
				return entity.StringValue(v)
			}
		}
		return entity.StringValue("")
	default:
		return entity.StringValue("")
	}
}

// labelTargets maps label "for" attributes to their visible text.
func labelTargets(doc *html.Node) map[string]string {
	targets := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "label" {
			if target := attrVal(n, "for"); target != "" {
				targets[target] = strings.TrimSpace(nodeText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return targets
}

func optionValues(sel *html.Node) []string {
	var values []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "option" {
			// A value attribute wins; otherwise the option submits its text.
			if v, ok := lookupAttr(n, "value"); ok {
				values = append(values, v)
			} else {
				values = append(values, strings.TrimSpace(nodeText(n)))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(sel)
	return values
}

// cssPath builds a positional selector for elements carrying neither an
// id nor a name. The path is anchored at the nearest ancestor with an id
// so it survives unrelated changes elsewhere in the document.
func cssPath(n *html.Node) string {
	var segments []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if cur.Data == "html" || cur.Data == "body" {
			break
		}
		if id := attrVal(cur, "id"); id != "" && cur != n {
			segments = append([]string{fmt.Sprintf("[id=%q]", id)}, segments...)
			break
		}
		seg := cur.Data
		if k := nthOfType(cur); k > 1 {
			seg = fmt.Sprintf("%s:nth-of-type(%d)", cur.Data, k)
		}
		segments = append([]string{seg}, segments...)
	}
	return strings.Join(segments, " > ")
}

func nthOfType(n *html.Node) int {
	k := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == n.Data {
			k++
		}
	}
	return k
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func inputType(n *html.Node) string {
	t := strings.ToLower(strings.TrimSpace(attrVal(n, "type")))
	if t == "" {
		return "text"
	}
	return t
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrVal(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
