package loader

import (
	"errors"
	"strings"
	"testing"
)

func TestYAMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "export:\n  charset: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != "/bad.yaml" {
		t.Errorf("Path = %q, want /bad.yaml", perr.Path)
	}
	if perr.Line == 0 {
		t.Errorf("expected a line number in %q", perr.Message)
	}
}

func TestYAMLLoader_EmptyDocument(t *testing.T) {
	config, err := NewYAMLLoader("unused").LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config == nil || len(config) != 0 {
		t.Errorf("expected empty map, got %v", config)
	}
}

func TestYAMLLoader_Types(t *testing.T) {
	config, err := NewYAMLLoader("unused").LoadFromReader(strings.NewReader("export:\n  chunkSize: 128\n  bom: yes\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	export := config["export"].(map[string]any)
	if export["chunkSize"] != 128 {
		t.Errorf("chunkSize = %v (%T), want int 128", export["chunkSize"], export["chunkSize"])
	}
	// YAML 1.2 keeps "yes" a string.
	if export["bom"] != "yes" {
		t.Errorf("bom = %v (%T)", export["bom"], export["bom"])
	}
}
