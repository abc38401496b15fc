package review

import (
	"strings"
	"testing"
)

// fakeSource serves file content and a project listing from memory.
type fakeSource struct {
	files   map[string]string
	listing []string
}

func (f *fakeSource) FileContent(path string) string { return f.files[path] }

func (f *fakeSource) ProjectFiles() []string {
	if f.listing != nil {
		return f.listing
	}
	var out []string
	for p := range f.files {
		out = append(out, p)
	}
	return out
}

const sampleDiff = `diff --git a/app.py b/app.py
index 1111111..2222222 100644
--- a/app.py
+++ b/app.py
@@ -1,4 +1,5 @@
 import os
+import sys
 def main():
     pass
 main()
`

func TestGatherContextChangedFiles(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"app.py": "import os\nimport sys\ndef main():\n    pass\nmain()\n",
	}}

	bundle := GatherContext(src, sampleDiff, nil, "python", "web")
	if len(bundle.ChangedFiles) != 1 || bundle.ChangedFiles[0] != "app.py" {
		t.Fatalf("changed files = %v, want [app.py]", bundle.ChangedFiles)
	}
	if len(bundle.Hunks) != 1 {
		t.Fatalf("hunks = %d, want 1", len(bundle.Hunks))
	}
	if bundle.Language != "python" || bundle.ProjectType != "web" {
		t.Errorf("language/project = %q/%q", bundle.Language, bundle.ProjectType)
	}
}

func TestGatherContextExtractsFileContext(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"app.py": "import os\n\ndef main():\n    pass\n",
	}}

	bundle := GatherContext(src, sampleDiff, nil, "", "")
	fc, ok := bundle.FileContexts["app.py"]
	if !ok {
		t.Fatal("missing file context for app.py")
	}
	if fc.Language != "python" {
		t.Errorf("language = %q, want python", fc.Language)
	}
	if len(fc.Functions) == 0 || fc.Functions[0] != "main" {
		t.Errorf("functions = %v, want [main]", fc.Functions)
	}
}

func TestGatherContextCapsFileContexts(t *testing.T) {
	var b strings.Builder
	files := make(map[string]string)
	names := []string{"a.py", "b.py", "c.py", "d.py", "e.py", "f.py", "g.py"}
	for _, name := range names {
		b.WriteString("diff --git a/" + name + " b/" + name + "\n")
		b.WriteString("--- a/" + name + "\n")
		b.WriteString("+++ b/" + name + "\n")
		b.WriteString("@@ -1,1 +1,2 @@\n x = 1\n+y = 2\n")
		files[name] = "x = 1\ny = 2\n"
	}
	src := &fakeSource{files: files}

	bundle := GatherContext(src, b.String(), nil, "", "")
	if len(bundle.ChangedFiles) != len(names) {
		t.Fatalf("changed = %d, want %d", len(bundle.ChangedFiles), len(names))
	}
	if len(bundle.FileContexts) != maxContextFiles {
		t.Errorf("contexts = %d, want %d", len(bundle.FileContexts), maxContextFiles)
	}
}

func TestGatherContextFallsBackToProvidedFiles(t *testing.T) {
	src := &fakeSource{files: map[string]string{}}

	bundle := GatherContext(src, "not a diff at all", []string{"x.go"}, "", "")
	if len(bundle.ChangedFiles) != 1 || bundle.ChangedFiles[0] != "x.go" {
		t.Errorf("changed files = %v, want [x.go]", bundle.ChangedFiles)
	}
}

func TestGatherContextAlwaysRunsAnalyzers(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"app.py": "import os\n",
	}}

	bundle := GatherContext(src, sampleDiff, nil, "", "")
	if bundle.Deps == nil {
		t.Fatal("dependency map is nil")
	}
	if bundle.Arch == nil {
		t.Fatal("architecture analysis is nil")
	}
}
