package git

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"
)

type localChange struct {
	path string
	from *object.File
	to   *object.File
}

// WorktreeDiff returns a unified diff of tracked files modified in the
// worktree relative to HEAD. Untracked files are skipped.
func (s *Service) WorktreeDiff() (string, error) {
	if s.repo == nil {
		return "", fmt.Errorf("repository not initialized")
	}
	wt, err := s.repo.Worktree()
	if err != nil {
		return "", err
	}
	status, err := wt.Status()
	if err != nil {
		return "", err
	}
	headTree, err := s.headTree()
	if err != nil && err != plumbing.ErrReferenceNotFound {
		return "", err
	}
	var paths []string
	for path, st := range status {
		if st.Worktree != gitlib.Unmodified && st.Worktree != gitlib.Untracked {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	var changes []localChange
	for _, path := range paths {
		fromFile, err := fileFromTree(headTree, path)
		if err != nil {
			return "", err
		}
		toFile, err := fileFromDisk(s.path, path)
		if err != nil {
			return "", err
		}
		if fromFile == nil && toFile == nil {
			continue
		}
		changes = append(changes, localChange{path: path, from: fromFile, to: toFile})
	}
	if len(changes) == 0 {
		return "", nil
	}
	return renderLocalDiff(changes)
}

func (s *Service) headTree() (*object.Tree, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return nil, err
	}
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

func fileFromTree(tree *object.Tree, path string) (*object.File, error) {
	if tree == nil {
		return nil, nil
	}
	f, err := tree.File(path)
	if err == object.ErrFileNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func fileFromDisk(root, path string) (*object.File, error) {
	if root == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	file, err := os.Open(filepath.Join(root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	mem := &plumbing.MemoryObject{}
	mem.SetType(plumbing.BlobObject)
	if _, err := mem.Write(data); err != nil {
		return nil, err
	}
	blob, err := object.DecodeBlob(mem)
	if err != nil {
		return nil, err
	}
	mode := filemode.Regular
	if info, err := file.Stat(); err == nil {
		if m, err := filemode.NewFromOSFileMode(info.Mode()); err == nil {
			mode = m
		}
	}
	return object.NewFile(path, mode, blob), nil
}

func renderLocalDiff(changes []localChange) (string, error) {
	var b strings.Builder
	b.WriteString("Local uncommitted changes, not checked in to index\n")
	for _, ch := range changes {
		if ch.path == "" {
			continue
		}
		fmt.Fprintf(&b, "diff --git a/%s b/%s\n", ch.path, ch.path)

		isBinary, err := binaryChange(ch)
		if err != nil {
			return "", err
		}
		if isBinary {
			b.WriteString("(binary files differ)\n")
			continue
		}

		fromLines, err := fileLines(ch.from)
		if err != nil {
			return "", err
		}
		toLines, err := fileLines(ch.to)
		if err != nil {
			return "", err
		}

		ud := difflib.UnifiedDiff{
			A:        fromLines,
			B:        toLines,
			FromFile: fmt.Sprintf("a/%s", ch.path),
			ToFile:   fmt.Sprintf("b/%s", ch.path),
			Context:  3,
		}
		diffText, err := difflib.GetUnifiedDiffString(ud)
		if err != nil {
			return "", err
		}
		if diffText == "" {
			b.WriteString("(no textual changes)\n")
			continue
		}
		b.WriteString(diffText)
		if !strings.HasSuffix(diffText, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func binaryChange(ch localChange) (bool, error) {
	if ch.from != nil {
		bin, err := ch.from.IsBinary()
		if err != nil {
			return false, err
		}
		if bin {
			return true, nil
		}
	}
	if ch.to != nil {
		bin, err := ch.to.IsBinary()
		if err != nil {
			return false, err
		}
		if bin {
			return true, nil
		}
	}
	return false, nil
}

func fileLines(f *object.File) ([]string, error) {
	if f == nil {
		return []string{}, nil
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return difflib.SplitLines(content), nil
}
