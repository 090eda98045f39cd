package entity

import "fmt"

// SelectorType says how a selector string addresses a page element.
type SelectorType string

const (
	SelectorID    SelectorType = "id"
	SelectorName  SelectorType = "name"
	SelectorCSS   SelectorType = "css"
	SelectorXPath SelectorType = "xpath"
)

func (s SelectorType) Valid() bool {
	switch s {
	case SelectorID, SelectorName, SelectorCSS, SelectorXPath:
		return true
	}
	return false
}

// FieldType is the semantic kind of form control, governing how a value is
// applied. The filler matches it exhaustively.
type FieldType string

const (
	FieldInput    FieldType = "input"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldInput, FieldTextarea, FieldSelect, FieldCheckbox, FieldRadio:
		return true
	}
	return false
}

// Checkable reports whether the kind carries a checked state instead of text.
func (t FieldType) Checkable() bool {
	return t == FieldCheckbox || t == FieldRadio
}

// FormField is a single field to fill. Construct with NewFormField or
// validate explicitly after decoding; a validated field is never mutated.
type FormField struct {
	Selector     string       `yaml:"selector" json:"selector"`
	Value        FieldValue   `yaml:"value" json:"value"`
	SelectorType SelectorType `yaml:"selector_type" json:"selector_type"`
	FieldType    FieldType    `yaml:"field_type" json:"field_type"`
}

// NewFormField applies the documented defaults (selector_type id, field_type
// input) and fails fast on any invariant violation.
func NewFormField(selector string, value FieldValue, selType SelectorType, fieldType FieldType) (FormField, error) {
	if selType == "" {
		selType = SelectorID
	}
	if fieldType == "" {
		fieldType = FieldInput
	}
	f := FormField{
		Selector:     selector,
		Value:        value,
		SelectorType: selType,
		FieldType:    fieldType,
	}
	if err := f.Validate(); err != nil {
		return FormField{}, err
	}
	return f, nil
}

func (f FormField) Validate() error {
	if f.Selector == "" {
		return ErrEmptySelector
	}
	if !f.SelectorType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSelectorType, string(f.SelectorType))
	}
	if !f.FieldType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFieldType, string(f.FieldType))
	}
	if f.Value.Kind() == ValueAbsent {
		return ErrValueRequired
	}
	if f.Value.IsBool() && !f.FieldType.Checkable() {
		return ErrBoolValueNotAllowed
	}
	return nil
}
