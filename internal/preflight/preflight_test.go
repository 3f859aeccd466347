package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"audiosrt/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		baseURL string
		key     string
		passed  bool
	}{
		{"ok", srv.URL + "/v1/", "good-key", true},
		{"bad key", srv.URL + "/v1", "bad-key", false},
		{"wrong path", srv.URL, "good-key", false},
		{"missing url", "", "good-key", false},
		{"missing key", srv.URL + "/v1", " ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckOpenAI(context.Background(), tt.baseURL, tt.key)
			if result.Passed != tt.passed {
				t.Fatalf("Passed = %v, want %v (detail %q)", result.Passed, tt.passed, result.Detail)
			}
			if result.Detail == "" {
				t.Fatal("expected detail")
			}
		})
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_WhisperXChecksDirectories(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.HistoryDB = filepath.Join(t.TempDir(), "history.db")
	cfg.Paths.WorkDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_IncludesOpenAIForOpenAIBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.HistoryDB = ""
	cfg.Transcription.Backend = config.BackendOpenAI
	cfg.Transcription.OpenAI.BaseURL = srv.URL
	cfg.Transcription.OpenAI.APIKey = "test"

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected log dir and endpoint checks, got %+v", results)
	}
	if results[1].Name != "OpenAI endpoint" || !results[1].Passed {
		t.Fatalf("unexpected endpoint result: %+v", results[1])
	}
}

func TestCheckSystemDepsOptionality(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Resample = true
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 || statuses[0].Optional || statuses[1].Optional {
		t.Fatalf("expected both binaries required for resampling whisperx, got %+v", statuses)
	}

	cfg.Transcription.Backend = config.BackendJSON
	statuses = CheckSystemDeps(&cfg)
	if !statuses[0].Optional || !statuses[1].Optional {
		t.Fatalf("expected binaries optional for json replay, got %+v", statuses)
	}
}
