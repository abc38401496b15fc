package review

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verdictdev/verdict/internal/config"
	"github.com/verdictdev/verdict/internal/gitctx"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEmptyDiff(t *testing.T) {
	cfg := config.Default()
	diff := gitctx.DiffResult{Diff: "  \n ", Mode: "unstaged", Repo: gitctx.RepoMeta{Root: "/r", Branch: "main"}}

	report, err := Run(context.Background(), &fakeSource{}, diff, cfg, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Findings) != 0 {
		t.Errorf("findings = %d, want 0", len(report.Findings))
	}
	if report.Tool != "verdict" {
		t.Errorf("tool = %q", report.Tool)
	}
	if report.RunID == "" {
		t.Error("missing run id")
	}
	if report.Repo.Branch != "main" || report.Inputs.Mode != "unstaged" {
		t.Errorf("metadata not carried: %+v", report)
	}
}

func TestRunReviewsThroughProvider(t *testing.T) {
	reply := `[{"severity":"major","category":"logic","file":"app.py","line_start":2,"line_end":2,"message":"missing error handling"}]`
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]any{
			"response":          reply,
			"prompt_eval_count": 50,
			"eval_count":        30,
		})
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Primary = "ollama"
	cfg.Fallbacks = nil
	cfg.Providers = []config.ProviderConfig{
		{ID: "ollama", Endpoint: srv.URL, Model: "codellama", MaxTokens: 2000, Timeout: 5 * time.Second},
	}

	src := &fakeSource{files: map[string]string{
		"app.py": "import os\ndef main():\n    pass\n",
	}}
	diff := gitctx.DiffResult{Diff: sampleDiff, Files: []string{"app.py"}, Mode: "staged"}

	report, err := Run(context.Background(), src, diff, cfg, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(report.Findings))
	}
	f := report.Findings[0]
	if f.Severity != SeverityMajor || f.File != "app.py" {
		t.Errorf("finding = %+v", f)
	}
	if report.Summary.Counts.Major != 1 || report.Summary.HighestSeverity != SeverityMajor {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.Architecture == nil {
		t.Error("missing architecture analysis")
	}
	if gotPrompt == "" || !containsAll(gotPrompt, "--- BEGIN DIFF ---", "app.py") {
		t.Errorf("prompt not built from diff: %q", gotPrompt)
	}
}

func TestRunAllProvidersFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Primary = "ollama"
	cfg.Fallbacks = nil
	cfg.Providers = []config.ProviderConfig{
		{ID: "ollama", Endpoint: srv.URL, Model: "codellama", MaxTokens: 2000, Timeout: 5 * time.Second},
	}

	diff := gitctx.DiffResult{Diff: sampleDiff, Mode: "unstaged"}
	if _, err := Run(context.Background(), &fakeSource{}, diff, cfg, discardLogger()); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func TestRunRedactsSecrets(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]any{"response": "[]"})
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Primary = "ollama"
	cfg.Fallbacks = nil
	cfg.Redact = true
	cfg.Providers = []config.ProviderConfig{
		{ID: "ollama", Endpoint: srv.URL, Model: "codellama", MaxTokens: 2000, Timeout: 5 * time.Second},
	}

	secretDiff := `diff --git a/settings.py b/settings.py
--- a/settings.py
+++ b/settings.py
@@ -1,1 +1,2 @@
 DEBUG = True
+api_key = "sk-abcdefghijklmnopqrstuvwxyz123456"
`
	diff := gitctx.DiffResult{Diff: secretDiff, Mode: "unstaged"}
	if _, err := Run(context.Background(), &fakeSource{}, diff, cfg, discardLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsAll(gotPrompt, "[REDACTED]") {
		t.Error("secret not redacted from prompt")
	}
	if containsAll(gotPrompt, "sk-abcdefghijklmnopqrstuvwxyz123456") {
		t.Error("raw secret leaked into prompt")
	}
}

func TestRedactingSourceBlanksMatchedPaths(t *testing.T) {
	src := &redactingSource{
		src: &fakeSource{files: map[string]string{
			".env":   "DB_PASSWORD=hunter2",
			"app.py": "import os\n",
		}},
		paths: []string{"**/.env"},
	}

	if got := src.FileContent(".env"); strings.Contains(got, "hunter2") {
		t.Errorf("env file content not blanked: %q", got)
	}
	if got := src.FileContent("app.py"); got != "import os\n" {
		t.Errorf("clean file altered: %q", got)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
