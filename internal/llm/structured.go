package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON extracts a JSON object of type T from raw LLM text output.
// It handles markdown code fences, leading/trailing text, comments and
// nested braces. Every non-pointer field without omitempty must be present in
// the object. If validator is non-nil, the extracted value is validated
// before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	jsonStr := extractJSONBlock(stripCodeFences(raw))
	if jsonStr == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	jsonStr = normalizeJSON(jsonStr)

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	var tree any
	if err := json.Unmarshal([]byte(jsonStr), &tree); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if missing := missingFields[T](tree); len(missing) > 0 {
		return zero, fmt.Errorf("%w: missing required fields: %s", ErrInvalidOutput, strings.Join(missing, ", "))
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// stripCodeFences removes markdown fence lines (```json, ```).
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractJSONBlock finds the first balanced { ... } block in the text.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	end := -1
	walkJSON(s[start:], func(i int, c byte, inString bool) int {
		if inString || end != -1 {
			return 0
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = start + i
			}
		}
		return 0
	})
	if end == -1 {
		return ""
	}
	return s[start : end+1]
}

// normalizeJSON drops C-style comments and rewrites numbers such as ".8" or
// "-.3" into "0.8" and "-0.3", all outside string values.
func normalizeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	walkJSON(s, func(i int, c byte, inString bool) int {
		if inString {
			b.WriteByte(c)
			return 0
		}

		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			skip := 1
			for i+skip+1 < len(s) && s[i+skip+1] != '\n' {
				skip++
			}
			return skip
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			if end := strings.Index(s[i+2:], "*/"); end >= 0 {
				return end + 3
			}
			return len(s) - i - 1
		}

		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && isNumericBoundary(prevNonSpace(s, i-1)) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
		return 0
	})

	return b.String()
}

// walkJSON calls fn for every byte of s, tracking whether the byte sits
// inside a string literal (quotes and escapes count as inside). fn returns
// how many following bytes to skip.
func walkJSON(s string, fn func(i int, c byte, inString bool) int) {
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
			fn(i, c, true)
			continue
		case inString && c == '\\':
			escaped = true
			fn(i, c, true)
			continue
		case c == '"':
			inString = !inString
			fn(i, c, true)
			continue
		}
		i += fn(i, c, inString)
	}
}

func prevNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\n' && s[i] != '\r' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func isNumericBoundary(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
