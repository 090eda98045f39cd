package entity

// FormControl is one interactive control discovered on a live page. The
// inspector emits these; the scaffolder turns them back into FormField
// stubs.
type FormControl struct {
	Kind         FieldType    `json:"kind"`
	Selector     string       `json:"selector"`
	SelectorType SelectorType `json:"selector_type"`
	Name         string       `json:"name,omitempty"`
	ID           string       `json:"id,omitempty"`
	Label        string       `json:"label,omitempty"`
	Options      []string     `json:"options,omitempty"`
	Submit       bool         `json:"submit,omitempty"`
}
