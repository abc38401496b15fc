package cli

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/verdictdev/verdict/internal/config"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagProvider = ""
	flagFallbacks = ""
	flagFormat = ""
	flagOut = ""
	flagFailOn = ""
	flagLanguage = ""
	flagProjectType = ""
	flagNoRedact = false
	flagVerbose = false
}

func TestSplitComma(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"single value", "foo", []string{"foo"}},
		{"multiple values", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace trimmed", " a , b , c ", []string{"a", "b", "c"}},
		{"empty parts skipped", "a,,b", []string{"a", "b"}},
		{"all empty", ",,,", nil},
		{"trailing comma", "a,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitComma(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitComma(%q) = %v (len %d), want %v (len %d)",
					tt.input, got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitComma(%q)[%d] = %q, want %q",
						tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApplyOverrides_NoFlags(t *testing.T) {
	resetFlags()
	cfg := config.Default()
	applyOverrides(&cfg)

	def := config.Default()
	if cfg.Primary != def.Primary || cfg.Format != def.Format || cfg.FailOn != def.FailOn {
		t.Errorf("config changed with no flags set: %+v", cfg)
	}
	if !cfg.Redact {
		t.Error("redaction disabled with no flags set")
	}
}

func TestApplyOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagProvider = "openai"
	flagFallbacks = "ollama,openrouter"
	flagFormat = "json"
	flagFailOn = "critical"
	flagLanguage = "go"
	flagProjectType = "cli"
	flagNoRedact = true

	cfg := config.Default()
	applyOverrides(&cfg)

	if cfg.Primary != "openai" {
		t.Errorf("primary = %q, want openai", cfg.Primary)
	}
	if len(cfg.Fallbacks) != 2 || cfg.Fallbacks[0] != "ollama" || cfg.Fallbacks[1] != "openrouter" {
		t.Errorf("fallbacks = %v", cfg.Fallbacks)
	}
	if cfg.Format != "json" || cfg.FailOn != "critical" {
		t.Errorf("format/failOn = %q/%q", cfg.Format, cfg.FailOn)
	}
	if cfg.Language != "go" || cfg.ProjectType != "cli" {
		t.Errorf("language/projectType = %q/%q", cfg.Language, cfg.ProjectType)
	}
	if cfg.Redact {
		t.Error("redaction should be disabled")
	}
}

func TestConfigInit_CreatesFile(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	configPath := filepath.Join(tmpDir, "verdict", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config init did not create config.yaml: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid YAML: %v", err)
	}
	if cfg.Primary == "" {
		t.Error("config file has empty primary provider")
	}
}

func TestConfigInit_AlreadyExists(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfgDir := filepath.Join(tmpDir, "verdict")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("primary: openai\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init with existing file returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfgDir, "config.yaml"))
	if err != nil {
		t.Fatalf("cannot read config file: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Primary != "openai" {
		t.Errorf("config init overwrote existing file: primary = %q, want openai", cfg.Primary)
	}
}

func TestConfigShow_Execute(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configCmd.SetArgs([]string{"show"})
	if err := configCmd.Execute(); err != nil {
		t.Errorf("config show returned error: %v", err)
	}
}

func TestProvidersListCmd_Execute(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	providersCmd.SetArgs([]string{"list"})
	if err := providersCmd.Execute(); err != nil {
		t.Errorf("providers list returned error: %v", err)
	}
}

func TestReviewCmd_HasSubcommands(t *testing.T) {
	expected := map[string]bool{
		"unstaged": false,
		"staged":   false,
		"range":    false,
	}

	for _, sub := range reviewCmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("review subcommand %q not found", name)
		}
	}
}

func TestReviewRangeCmd_MissingArg(t *testing.T) {
	resetFlags()

	reviewCmd.SetArgs([]string{"range"})
	if err := reviewCmd.Execute(); err == nil {
		t.Error("review range without arg should return error")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitFindings", ExitFindings, 1},
		{"ExitUsageError", ExitUsageError, 2},
		{"ExitAuthError", ExitAuthError, 3},
		{"ExitRuntimeError", ExitRuntimeError, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

func TestVersionCmd_Execute(t *testing.T) {
	if err := versionCmd.Execute(); err != nil {
		t.Errorf("version command returned error: %v", err)
	}
}
