package filectx

import (
	"fmt"
	"strings"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"app/main.py", LangPython},
		{"src/index.ts", LangTypeScript},
		{"src/Widget.tsx", LangTypeScript},
		{"lib/util.js", LangJavaScript},
		{"cmd/main.go", LangGo},
		{"Service.java", LangJava},
		{"README", LangUnknown},
		{"binary.dat", LangUnknown},
		{"style.CSS", "css"},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.path); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExtract_UnknownLanguage(t *testing.T) {
	fc := Extract("notes.txt", "just some prose\nimport nothing\n")
	if fc.Language != LangUnknown {
		t.Errorf("Language = %q, want unknown", fc.Language)
	}
	if len(fc.Imports) != 0 || len(fc.Functions) != 0 || len(fc.Classes) != 0 {
		t.Error("unknown language must yield empty collections")
	}
	if fc.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", fc.TotalLines)
	}
}

func TestExtract_EmptyContent(t *testing.T) {
	fc := Extract("app.py", "")
	if fc.Language != LangPython {
		t.Errorf("Language = %q, want python", fc.Language)
	}
	if fc.TotalLines != 0 || len(fc.Imports) != 0 {
		t.Error("empty content must yield an empty context, not an error")
	}
}

func TestExtract_Python(t *testing.T) {
	content := `import os
from pathlib import Path

class UserService:
    def get_user(self, uid):
        pass

    def _internal(self):
        pass

def main():
    pass
`
	fc := Extract("service.py", content)
	if len(fc.Imports) != 2 {
		t.Errorf("Imports = %v, want 2 entries", fc.Imports)
	}
	wantFuncs := []string{"get_user", "_internal", "main"}
	if len(fc.Functions) != len(wantFuncs) {
		t.Fatalf("Functions = %v, want %v", fc.Functions, wantFuncs)
	}
	if len(fc.Classes) != 1 || fc.Classes[0] != "UserService" {
		t.Errorf("Classes = %v, want [UserService]", fc.Classes)
	}
}

func TestExtract_TypeScript(t *testing.T) {
	content := `import { api } from './api'
const db = require('./db')

export function fetchUser(id: string) {}
const handler = (req) => req
interface User { id: string }
type Result = { ok: boolean }
class Store {}
`
	fc := Extract("store.ts", content)
	if len(fc.Imports) != 2 {
		t.Errorf("Imports = %v, want 2 entries", fc.Imports)
	}
	if !contains(fc.Functions, "fetchUser") || !contains(fc.Functions, "handler") {
		t.Errorf("Functions = %v, want fetchUser and handler", fc.Functions)
	}
	for _, want := range []string{"User", "Result", "Store"} {
		if !contains(fc.Classes, want) {
			t.Errorf("Classes = %v, missing %q", fc.Classes, want)
		}
	}
}

func TestExtract_GoImportBlock(t *testing.T) {
	content := `package server

import (
	"fmt"
	"net/http"
)

import "strings"

func Serve(addr string) error { return nil }

func (s *Server) handle() {}

type Server struct{}

type Handler interface{}
`
	fc := Extract("server.go", content)
	if len(fc.Imports) != 3 {
		t.Errorf("Imports = %v, want 3 entries", fc.Imports)
	}
	if !contains(fc.Functions, "Serve") || !contains(fc.Functions, "handle") {
		t.Errorf("Functions = %v, want Serve and handle", fc.Functions)
	}
	if !contains(fc.Classes, "Server") || !contains(fc.Classes, "Handler") {
		t.Errorf("Classes = %v, want Server and Handler", fc.Classes)
	}
}

func TestExtract_CapsApplied(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "import mod%d\n", i)
	}
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "def func%d():\n    pass\n", i)
	}
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "class Class%d:\n    pass\n", i)
	}

	fc := Extract("big.py", b.String())
	if len(fc.Imports) != 10 {
		t.Errorf("Imports capped at %d, want 10", len(fc.Imports))
	}
	if len(fc.Functions) != 15 {
		t.Errorf("Functions capped at %d, want 15", len(fc.Functions))
	}
	if len(fc.Classes) != 10 {
		t.Errorf("Classes capped at %d, want 10", len(fc.Classes))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
