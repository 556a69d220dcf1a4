package jsonutils

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	input := "Here you go:\n```json\n{\"summary\": \"hi\", \"tags\": [\"a\"]}\n```\nHope that helps!"
	got := ExtractJSON(input)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("extracted block is not valid JSON: %v (%q)", err, got)
	}
	if parsed["summary"] != "hi" {
		t.Errorf("summary = %v, want hi", parsed["summary"])
	}
}

func TestExtractJSONRawObject(t *testing.T) {
	got := ExtractJSON(`The result is {"category": "tech",} ok`)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("trailing comma not sanitized: %v (%q)", err, got)
	}
	if parsed["category"] != "tech" {
		t.Errorf("category = %v, want tech", parsed["category"])
	}
}
