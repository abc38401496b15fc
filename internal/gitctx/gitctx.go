package gitctx

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// maxProjectFiles caps the project listing handed to the architecture
// analyzer. The cap is a cost-control invariant, not a tuning knob.
const maxProjectFiles = 200

// Source is the file-access capability the analyzers need from the
// version-control layer: current file content and a bounded project
// listing. Both degrade to empty results rather than failing.
type Source interface {
	FileContent(path string) string
	ProjectFiles() []string
}

// DiffResult holds a collected diff and its metadata.
type DiffResult struct {
	Diff  string
	Files []string
	Mode  string
	Range string
	Repo  RepoMeta
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// Repo reads diffs and file content from the local git repository. The
// zero value reads from the current working directory.
type Repo struct {
	// Dir overrides the working directory for git invocations. Empty
	// means the process working directory.
	Dir string
}

// GetRepoMeta collects repository metadata from git.
func (r *Repo) GetRepoMeta() (RepoMeta, error) {
	root, err := r.git("rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	head, err := r.git("rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := r.git("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// Unstaged returns the diff of working tree vs index.
func (r *Repo) Unstaged() (DiffResult, error) {
	diff, err := r.git("diff")
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff: %w", err)
	}
	return r.buildResult(diff, "unstaged", "")
}

// Staged returns the diff of index vs HEAD.
func (r *Repo) Staged() (DiffResult, error) {
	diff, err := r.git("diff", "--cached")
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff --cached: %w", err)
	}
	return r.buildResult(diff, "staged", "")
}

// Range returns the combined diff for a revision range such as
// "main...HEAD".
func (r *Repo) Range(revRange string) (DiffResult, error) {
	diff, err := r.git("diff", revRange)
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff %s: %w", revRange, err)
	}
	return r.buildResult(diff, "range", revRange)
}

// FileContent returns the content of a file at HEAD, falling back to
// the working tree for new or uncommitted files and to the empty string
// when the file cannot be read at all.
func (r *Repo) FileContent(path string) string {
	return r.FileContentAt(path, "HEAD")
}

// FileContentAt returns the content of a file at a specific ref with the
// same fallback chain as FileContent.
func (r *Repo) FileContentAt(path, ref string) string {
	out, err := r.git("show", ref+":"+path)
	if err == nil {
		return out
	}
	full := path
	if r.Dir != "" {
		full = r.Dir + string(os.PathSeparator) + path
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return ""
	}
	return string(data)
}

// ProjectFiles lists tracked and untracked-but-not-ignored files, capped
// at maxProjectFiles entries. Dotfiles are excluded the same way the
// analyzers expect to never see VCS internals.
func (r *Repo) ProjectFiles() []string {
	out, err := r.git("ls-files", "--cached", "--others", "--exclude-standard")
	if err != nil {
		return nil
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ".") {
			continue
		}
		files = append(files, line)
		if len(files) >= maxProjectFiles {
			break
		}
	}
	return files
}

func (r *Repo) buildResult(diff, mode, rangeStr string) (DiffResult, error) {
	meta, err := r.GetRepoMeta()
	if err != nil {
		meta = RepoMeta{}
	}
	return DiffResult{
		Diff:  diff,
		Files: ExtractFiles(diff),
		Mode:  mode,
		Range: rangeStr,
		Repo:  meta,
	}, nil
}

// ExtractFiles returns the post-image paths named in a unified diff, in
// first-appearance order.
func ExtractFiles(diff string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			f := strings.TrimPrefix(line, "+++ b/")
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

func (r *Repo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
