package filectx

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Language identifies the detected source language of a file.
type Language string

// Languages with extraction rules. Files in any other language still
// get a detected name from the extension table but no extraction.
const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangUnknown    Language = "unknown"
)

// List caps keep every FileContext small enough to embed in a prompt.
// They are an invariant of the data model, not a tuning parameter.
const (
	maxImports   = 10
	maxFunctions = 15
	maxClasses   = 10
)

// FileContext summarizes one file for prompt enrichment. Recomputed per
// review; never persisted.
type FileContext struct {
	FilePath   string
	Language   Language
	Imports    []string
	Functions  []string
	Classes    []string
	TotalLines int
}

// extensionTable maps file extensions to languages.
var extensionTable = map[string]Language{
	".py":    LangPython,
	".js":    LangJavaScript,
	".jsx":   LangJavaScript,
	".ts":    LangTypeScript,
	".tsx":   LangTypeScript,
	".java":  LangJava,
	".go":    LangGo,
	".rs":    "rust",
	".cpp":   "cpp",
	".c":     "c",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".sh":    "bash",
	".yml":   "yaml",
	".yaml":  "yaml",
	".json":  "json",
	".xml":   "xml",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".sql":   "sql",
}

// rules is the lexical extraction strategy for one language family.
// Everything is line- or regex-driven; no language is ever parsed for
// real, so over- and under-counting are both expected.
type rules struct {
	imports   func(content string) []string
	functions []*regexp.Regexp
	classes   []*regexp.Regexp
}

var ruleTable = map[Language]rules{
	LangPython: {
		imports: prefixImports("import ", "from "),
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*def\s+(\w+)\s*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*class\s+(\w+)`),
		},
	},
	LangJavaScript: {
		imports:   jsImports,
		functions: jsFunctionRes,
		classes:   jsClassRes,
	},
	LangTypeScript: {
		imports:   jsImports,
		functions: jsFunctionRes,
		classes:   jsClassRes,
	},
	LangJava: {
		imports: prefixImports("import "),
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)(?:public|private|protected)\s+(?:static\s+)?\w[\w<>\[\]]*\s+(\w+)\s*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)(?:public|private)?\s*(?:class|interface)\s+(\w+)`),
		},
	},
	LangGo: {
		imports: goImports,
		functions: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^func\s+(?:\([^)]*\)\s+)?(\w+)\s*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^type\s+(\w+)\s+(?:struct|interface)\b`),
		},
	},
}

var jsFunctionRes = []*regexp.Regexp{
	regexp.MustCompile(`function\s+(\w+)\s*\(`),
	regexp.MustCompile(`const\s+(\w+)\s*=\s*(?:async\s*)?\(`),
	regexp.MustCompile(`(\w+)\s*:\s*\([^)]*\)\s*=>`),
}

var jsClassRes = []*regexp.Regexp{
	regexp.MustCompile(`class\s+(\w+)`),
	regexp.MustCompile(`interface\s+(\w+)`),
	regexp.MustCompile(`type\s+(\w+)\s*=`),
}

// DetectLanguage decides the language purely from the file extension.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionTable[ext]; ok {
		return lang
	}
	return LangUnknown
}

// Extract derives a FileContext from path and content. It never fails:
// unmapped extensions or empty content simply produce empty collections.
func Extract(path, content string) FileContext {
	lang := DetectLanguage(path)
	fc := FileContext{
		FilePath: path,
		Language: lang,
	}
	if content != "" {
		fc.TotalLines = len(strings.Split(content, "\n"))
	}

	r, ok := ruleTable[lang]
	if !ok || content == "" {
		return fc
	}

	fc.Imports = truncate(r.imports(content), maxImports)
	fc.Functions = truncate(findAll(r.functions, content), maxFunctions)
	fc.Classes = truncate(findAll(r.classes, content), maxClasses)
	return fc
}

func findAll(res []*regexp.Regexp, content string) []string {
	var names []string
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if m[1] != "" {
				names = append(names, m[1])
			}
		}
	}
	return names
}

func truncate(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

// prefixImports collects lines starting with any of the given prefixes.
func prefixImports(prefixes ...string) func(string) []string {
	return func(content string) []string {
		var imports []string
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			for _, p := range prefixes {
				if strings.HasPrefix(line, p) {
					imports = append(imports, line)
					break
				}
			}
		}
		return imports
	}
}

func jsImports(content string) []string {
	var imports []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "import ") ||
			(strings.HasPrefix(line, "const ") && strings.Contains(line, "require(")) {
			imports = append(imports, line)
		}
	}
	return imports
}

// goImports handles both single-line imports and import ( ... ) blocks.
func goImports(content string) []string {
	var imports []string
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "import ("):
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock && line != "":
			imports = append(imports, line)
		case strings.HasPrefix(line, "import "):
			imports = append(imports, strings.TrimPrefix(line, "import "))
		}
	}
	return imports
}
