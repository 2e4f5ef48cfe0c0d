package loader

import (
	"errors"
	"testing"
)

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[export]\ncharset = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	if err == nil {
		t.Fatal("expected parse error")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", perr.Path)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{
			name: "line and column",
			err:  &ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "boom"},
			want: "parse error in a.toml at line 3, column 7: boom",
		},
		{
			name: "line only",
			err:  &ParseError{Path: "a.yaml", Line: 3, Message: "boom"},
			want: "parse error in a.yaml at line 3: boom",
		},
		{
			name: "no position",
			err:  &ParseError{Path: "<reader>", Message: "boom"},
			want: "parse error in <reader>: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
