package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadToolConfigsEmptyPath(t *testing.T) {
	configs, err := loadToolConfigs("")
	if err != nil {
		t.Fatal(err)
	}
	if len(configs) != 0 {
		t.Errorf("configs = %v", configs)
	}
}

func TestLoadToolConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	doc := `{"sql_query":{"database_url":"file:test.db"},"search_internet":{"serper_api_key":"sk"}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	configs, err := loadToolConfigs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(configs) != 2 {
		t.Fatalf("got %d entries", len(configs))
	}
	if string(configs["search_internet"]) != `{"serper_api_key":"sk"}` {
		t.Errorf("search_internet = %s", configs["search_internet"])
	}
}

func TestLoadToolConfigsMissingFile(t *testing.T) {
	if _, err := loadToolConfigs(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadToolConfigsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadToolConfigs(path); err == nil {
		t.Fatal("expected error")
	}
}
