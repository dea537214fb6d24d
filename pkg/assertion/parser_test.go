package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssertionString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Definition
	}{
		{
			name:  "no arguments",
			input: "called fetch",
			want:  Definition{Type: "called", Target: "fetch"},
		},
		{
			name:  "flow arguments",
			input: "calledWith fetch [1, two, true]",
			want: Definition{
				Type: "calledWith", Target: "fetch",
				Values: []any{1, "two", true},
			},
		},
		{
			name:  "call order",
			input: "  callOrder open   [read, close] ",
			want: Definition{
				Type: "callOrder", Target: "open",
				Values: []any{"read", "close"},
			},
		},
		{
			name:  "nested mapping",
			input: "calledWithMatch save [{id: 7}]",
			want: Definition{
				Type: "calledWithMatch", Target: "save",
				Values: []any{map[string]any{"id": 7}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssertionString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssertionString_Errors(t *testing.T) {
	for _, input := range []string{"", "called", "calledWith fetch [1, 2"} {
		_, err := ParseAssertionString(input)
		assert.Error(t, err, input)
	}
}

func TestParseDefinitions(t *testing.T) {
	data := []byte(`
- called open
- type: calledWith
  target: read
  values: [buffer, 512]
  message: reads one block
`)

	defs, err := ParseDefinitions(data)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, Definition{Type: "called", Target: "open"}, defs[0])
	assert.Equal(t, "calledWith", defs[1].Type)
	assert.Equal(t, []any{"buffer", 512}, defs[1].Values)
	assert.Equal(t, "reads one block", defs[1].Message)
}

func TestParseDefinitions_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not a list", "type: called"},
		{"missing target", "- type: called"},
		{"bad compact", "- called"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
