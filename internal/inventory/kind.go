package inventory

import "fmt"

// WorktreeID is the opaque identity of a project worktree.
type WorktreeID int64

type kindTag int

const (
	kindUserInput kindTag = iota
	kindAbsPath
	kindWorktree
)

// SourceKind classifies where a source's task definitions come from.
// The zero value is the UserInput kind.
type SourceKind struct {
	tag      kindTag
	absPath  string
	worktree WorktreeID
}

// UserInput is the kind of ad-hoc sources not tied to any path.
func UserInput() SourceKind {
	return SourceKind{tag: kindUserInput}
}

// AbsPath is the kind of sources rooted at one absolute filesystem path.
func AbsPath(path string) SourceKind {
	return SourceKind{tag: kindAbsPath, absPath: path}
}

// Worktree is the kind of sources rooted at one project worktree,
// identified both by id and by the worktree's absolute path.
func Worktree(id WorktreeID, absPath string) SourceKind {
	return SourceKind{tag: kindWorktree, worktree: id, absPath: absPath}
}

// AbsPath returns the path the kind is rooted at. False for UserInput.
func (k SourceKind) AbsPath() (string, bool) {
	switch k.tag {
	case kindAbsPath, kindWorktree:
		return k.absPath, true
	default:
		return "", false
	}
}

// Worktree returns the worktree identity, if the kind carries one.
func (k SourceKind) Worktree() (WorktreeID, bool) {
	if k.tag == kindWorktree {
		return k.worktree, true
	}
	return 0, false
}

// IsWorktree reports whether the kind is worktree-scoped. Worktree-scoped
// origins sort ahead of global ones at equal recency.
func (k SourceKind) IsWorktree() bool {
	return k.tag == kindWorktree
}

func (k SourceKind) String() string {
	switch k.tag {
	case kindAbsPath:
		return fmt.Sprintf("path(%s)", k.absPath)
	case kindWorktree:
		return fmt.Sprintf("worktree(%d, %s)", k.worktree, k.absPath)
	default:
		return "user input"
	}
}
