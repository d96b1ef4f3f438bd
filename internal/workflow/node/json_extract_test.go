package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "surrounding prose", in: "Here you go:\n{\"a\":1}\nHope this helps {smile}", want: `{"a":1}`},
		{name: "code fence", in: "```json\n{\"a\":[1,2]}\n```", want: `{"a":[1,2]}`},
		{name: "array", in: `noise [1,2,3] tail`, want: `[1,2,3]`},
		{name: "no json", in: "  not json at all  ", want: "not json at all"},
		{name: "broken json", in: `{"a":`, want: `{"a":`},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONValue(tt.in))
		})
	}
}

func TestIsResponseFormatUnsupportedError(t *testing.T) {
	assert.False(t, IsResponseFormatUnsupportedError(nil))
	assert.True(t, IsResponseFormatUnsupportedError(errString("400: Invalid value for 'response_format'")))
	assert.True(t, IsResponseFormatUnsupportedError(errString("Unknown parameter: response.type")))
	assert.False(t, IsResponseFormatUnsupportedError(errString("429 quota exceeded")))
}

type errString string

func (e errString) Error() string { return string(e) }
