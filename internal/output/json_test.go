package output

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONFormatRunFound(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(nil)
	if err := f.FormatRun(&buf, sampleFoundReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc["found"] != true {
		t.Error("expected found true")
	}
	if doc["password"] != "hunter2" {
		t.Errorf("expected password hunter2, got %v", doc["password"])
	}
	if doc["target"] != "vault.7z" {
		t.Errorf("expected target vault.7z, got %v", doc["target"])
	}
	if doc["candidateIndex"] != float64(3) {
		t.Errorf("expected candidateIndex 3, got %v", doc["candidateIndex"])
	}
}

func TestJSONFormatRunNotFound(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(nil)
	if err := f.FormatRun(&buf, sampleNotFoundReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc["found"] != false {
		t.Error("expected found false")
	}
	if _, ok := doc["password"]; ok {
		t.Error("password must be absent for a not-found run")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(nil)
	if err := f.Format(&buf, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]string
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["a"] != "b" {
		t.Errorf("unexpected document: %v", doc)
	}
}
