package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValueOf_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want FieldValue
	}{
		{"String", "hello", StringValue("hello")},
		{"Bool", true, BoolValue(true)},
		{"Int", 42, IntValue(42)},
		{"Int64", int64(-7), IntValue(-7)},
		{"IntegralFloat", float64(25), IntValue(25)},
		{"JSONNumber", json.Number("30"), IntValue(30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOf_Rejected(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want error
	}{
		{"Nil", nil, ErrValueRequired},
		{"Float", 3.14, ErrInvalidValueType},
		{"JSONNumberFloat", json.Number("3.14"), ErrInvalidValueType},
		{"Slice", []string{"a"}, ErrInvalidValueType},
		{"Map", map[string]any{"a": 1}, ErrInvalidValueType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValueOf(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFieldValue_Text(t *testing.T) {
	assert.Equal(t, "hello", StringValue("hello").Text())
	assert.Equal(t, "42", IntValue(42).Text())
	assert.Equal(t, "true", BoolValue(true).Text())
	assert.Equal(t, "", FieldValue{}.Text())
}

func TestFieldValue_Bool(t *testing.T) {
	tests := []struct {
		name    string
		value   FieldValue
		want    bool
		wantErr bool
	}{
		{"BoolTrue", BoolValue(true), true, false},
		{"BoolFalse", BoolValue(false), false, false},
		{"IntNonZero", IntValue(1), true, false},
		{"IntZero", IntValue(0), false, false},
		{"StringTrue", StringValue("true"), true, false},
		{"StringFalse", StringValue("false"), false, false},
		{"StringGarbage", StringValue("maybe"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Bool()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldValue_YAMLKindFidelity(t *testing.T) {
	type doc struct {
		Value FieldValue `yaml:"value"`
	}

	// A quoted scalar must survive as a string even when it looks numeric.
	var quoted doc
	require.NoError(t, yaml.Unmarshal([]byte(`value: "12345"`), &quoted))
	assert.Equal(t, ValueString, quoted.Value.Kind())
	assert.Equal(t, "12345", quoted.Value.Text())

	var bare doc
	require.NoError(t, yaml.Unmarshal([]byte(`value: 12345`), &bare))
	assert.Equal(t, ValueInt, bare.Value.Kind())

	out, err := yaml.Marshal(doc{Value: IntValue(25)})
	require.NoError(t, err)
	assert.Equal(t, "value: 25\n", string(out))
}

func TestFieldValue_JSONKindFidelity(t *testing.T) {
	type doc struct {
		Value FieldValue `json:"value"`
	}

	var quoted doc
	require.NoError(t, json.Unmarshal([]byte(`{"value": "42"}`), &quoted))
	assert.Equal(t, ValueString, quoted.Value.Kind())

	var bare doc
	require.NoError(t, json.Unmarshal([]byte(`{"value": 42}`), &bare))
	assert.Equal(t, ValueInt, bare.Value.Kind())
	assert.Equal(t, "42", bare.Value.Text())

	var checked doc
	require.NoError(t, json.Unmarshal([]byte(`{"value": true}`), &checked))
	assert.Equal(t, ValueBool, checked.Value.Kind())

	out, err := json.Marshal(doc{Value: BoolValue(true)})
	require.NoError(t, err)
	assert.Equal(t, `{"value":true}`, string(out))
}
