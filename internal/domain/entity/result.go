package entity

// FillResult reports the outcome of a fill run. Success is true only when
// every configured field was applied and all requested screenshots were
// captured; failed submit lookups are recorded but do not flip it.
type FillResult struct {
	Success      bool     `json:"success"`
	FilledFields []string `json:"filled_fields"`
	Errors       []string `json:"errors"`
	Submitted    bool     `json:"submitted"`
}

// NewFillResult returns a result with non-nil slices so JSON encoding emits
// arrays rather than null.
func NewFillResult() *FillResult {
	return &FillResult{
		Success:      true,
		FilledFields: []string{},
		Errors:       []string{},
	}
}

// RecordFilled marks one field as applied, in fill order.
func (r *FillResult) RecordFilled(selector string) {
	r.FilledFields = append(r.FilledFields, selector)
}

// RecordError appends a failure message and clears Success.
func (r *FillResult) RecordError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Success = false
}

// RecordWarning appends a failure message without affecting Success.
func (r *FillResult) RecordWarning(msg string) {
	r.Errors = append(r.Errors, msg)
}
