package providers

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
	}{
		{
			name:    "bare object",
			content: `{"score": 85}`,
			want:    `{"score":85}`,
			wantOK:  true,
		},
		{
			name:    "fenced with language tag",
			content: "```json\n{\"score\": 85}\n```",
			want:    `{"score":85}`,
			wantOK:  true,
		},
		{
			name:    "fenced without language tag",
			content: "```\n[{\"title\": \"绪论\", \"level\": 1}]\n```",
			want:    `[{"title":"绪论","level":1}]`,
			wantOK:  true,
		},
		{
			name:    "object embedded in prose",
			content: "Here is the analysis:\n{\"score\": 85, \"summary\": \"good\"}\nHope this helps!",
			want:    `{"score":85,"summary":"good"}`,
			wantOK:  true,
		},
		{
			name:    "array embedded in prose",
			content: "The entries are: [1, 2, 3] as requested.",
			want:    `[1,2,3]`,
			wantOK:  true,
		},
		{
			name:    "no json at all",
			content: "本章结构完整，逻辑清晰。85分。",
			wantOK:  false,
		},
		{
			name:    "empty",
			content: "",
			wantOK:  false,
		},
		{
			name:    "malformed json",
			content: `{"score": }`,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.content)
			if ok != tt.wantOK {
				t.Fatalf("ExtractJSON() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && string(got) != tt.want {
				t.Errorf("ExtractJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateJSON(t *testing.T) {
	schema, err := CompileSchema("entry.json", []byte(`{
		"type": "object",
		"required": ["title", "level"],
		"properties": {
			"title": {"type": "string"},
			"level": {"type": "integer", "minimum": 1}
		}
	}`))
	if err != nil {
		t.Fatalf("CompileSchema() error = %v", err)
	}

	if err := ValidateJSON(schema, []byte(`{"title": "绪论", "level": 1}`)); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}
	if err := ValidateJSON(schema, []byte(`{"title": "绪论"}`)); err == nil {
		t.Error("expected error for missing level")
	}
	if err := ValidateJSON(schema, []byte(`not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}
