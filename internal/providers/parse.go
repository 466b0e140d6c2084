package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ExtractJSON pulls a JSON value out of a model reply. Models wrap JSON in
// markdown fences or pad it with prose more often than not, so we strip
// fences first and then fall back to locating the outermost brace pair.
func ExtractJSON(content string) (json.RawMessage, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, false
	}

	if fenced, ok := stripCodeFence(content); ok {
		content = fenced
	}

	if raw, ok := tryJSON(content); ok {
		return raw, true
	}

	// Locate the outermost object or array in a prose reply.
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(content, pair[0])
		end := strings.LastIndexByte(content, pair[1])
		if start >= 0 && end > start {
			if raw, ok := tryJSON(content[start : end+1]); ok {
				return raw, true
			}
		}
	}

	return nil, false
}

func stripCodeFence(content string) (string, bool) {
	if !strings.HasPrefix(content, "```") {
		return "", false
	}
	body := content[3:]
	// Drop the language tag on the opening fence.
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body), true
}

func tryJSON(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if !json.Valid([]byte(s)) {
		return nil, false
	}
	// Compact so downstream comparisons are stable.
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, false
	}
	return json.RawMessage(buf.Bytes()), true
}

// CompileSchema compiles an inline JSON schema for reply validation.
func CompileSchema(name string, schema []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return compiled, nil
}

// ValidateJSON checks a raw reply against a compiled schema.
func ValidateJSON(schema *jsonschema.Schema, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("reply failed schema validation: %w", err)
	}
	return nil
}
