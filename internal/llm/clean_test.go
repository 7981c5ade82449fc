package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain object untouched",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "json fence stripped",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence stripped",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "leading prose dropped",
			input:    "好的，结果如下：{\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "trailing prose dropped",
			input:    "{\"a\": 1}\n希望对你有帮助！",
			expected: `{"a": 1}`,
		},
		{
			name:     "nested object kept whole",
			input:    `{"a": {"b": 2}}`,
			expected: `{"a": {"b": 2}}`,
		},
		{
			name:     "braces inside strings ignored",
			input:    `{"a": "}{"}`,
			expected: `{"a": "}{"}`,
		},
		{
			name:     "no object returns trimmed input",
			input:    "  没有找到  ",
			expected: "没有找到",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONResponse(tt.input))
		})
	}
}
