package llm

import (
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "As requested, here is the JSON:\n{\"project_level\": \"Advanced\"}",
			expected: `{"project_level": "Advanced"}`,
		},
		{
			name:     "preamble and trailing text",
			input:    "Assessment: {\"project_level\": \"Beginner\"} Hope this helps!",
			expected: `{"project_level": "Beginner"}`,
		},
		{
			name:     "no JSON at all",
			input:    "Intermediate",
			expected: "Intermediate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", `x {"a": 1} y`, `{"a": 1}`},
		{"nested", `{"a": {"b": 2}} tail`, `{"a": {"b": 2}}`},
		{"brace in string", `{"a": "}"}`, `{"a": "}"}`},
		{"escaped quote", `{"a": "\"}"}`, `{"a": "\"}"}`},
		{"unbalanced", `{"a": 1`, ""},
		{"none", `no json`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.input); got != tt.expected {
				t.Errorf("ExtractJSONObject() = %q, want %q", got, tt.expected)
			}
		})
	}
}
