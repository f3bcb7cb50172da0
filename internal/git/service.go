package git

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const DefaultBatch = 1000

type Service struct {
	// mu serializes access to repo operations that share iterators/state (scan session).
	mu sync.Mutex

	repo *gitlib.Repository
	path string
	scan *scanSession
}

func Open(repoPath string) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Service{path: abs, repo: repo}, nil
}

func (s *Service) RepoPath() string {
	return s.path
}

// ScanCommits returns up to batch commits starting at position skip in the
// committer-time log order over all refs, along with the HEAD ref name and
// whether more commits remain. Walking every ref (branches, remotes, tags)
// rather than just HEAD keeps side branches in the window, so the graph
// shows the full lane topology and orphan detection has non-HEAD history
// to inspect. The order lists children before their in-window parents,
// which is what the layout engine requires.
func (s *Service) ScanCommits(skip, batch int) ([]*Commit, string, bool, error) {
	if batch <= 0 {
		batch = DefaultBatch
	}
	slog.Debug("ScanCommits start", slog.Int("skip", skip), slog.Int("batch", batch))
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			if s.scan != nil {
				s.scan.close()
				s.scan = nil
			}
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	if err := s.ensureScanSessionLocked(ref); err != nil {
		return nil, "", false, err
	}
	if skip < 0 {
		skip = 0
	}
	// If the caller requests a different position than the current session, reset and advance to skip.
	if skip != s.scan.returned {
		slog.Debug("ScanCommits reset session",
			slog.Int("requested_skip", skip),
			slog.Int("session_returned", s.scan.returned),
			slog.String("head", s.scan.headName),
		)
		if err := s.resetScanLocked(ref); err != nil {
			return nil, "", false, err
		}
		if err := s.scan.discard(skip); err != nil {
			if err == io.EOF {
				return nil, s.scan.headName, false, nil
			}
			return nil, "", false, fmt.Errorf("iterate commits: %w", err)
		}
	}

	commits := make([]*Commit, 0, batch)
	for len(commits) < batch {
		commit, err := s.scan.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, "", false, fmt.Errorf("iterate commits: %w", err)
		}
		commits = append(commits, newCommit(commit))
	}
	hasMore, err := s.scan.hasMore()
	if err != nil {
		return nil, "", false, err
	}
	slog.Debug("ScanCommits done",
		slog.Int("returned", len(commits)),
		slog.Int("session_returned", s.scan.returned),
		slog.Bool("has_more", hasMore),
		slog.String("head", s.scan.headName),
	)
	return commits, s.scan.headName, hasMore, nil
}

type scanSession struct {
	head     plumbing.Hash
	headName string

	iter object.CommitIter

	// buffered holds the next commit returned by hasMore() so ScanCommits can keep consuming in-order.
	buffered  *object.Commit
	exhausted bool
	returned  int
}

func (s *Service) ensureScanSessionLocked(ref *plumbing.Reference) error {
	if s.scan != nil && s.scan.head == ref.Hash() {
		return nil
	}
	return s.resetScanLocked(ref)
}

func (s *Service) resetScanLocked(ref *plumbing.Reference) error {
	if s.scan != nil {
		s.scan.close()
		s.scan = nil
	}
	iter, err := s.repo.Log(&gitlib.LogOptions{Order: gitlib.LogOrderCommitterTime, All: true})
	if err != nil {
		return fmt.Errorf("read commits: %w", err)
	}
	s.scan = &scanSession{
		head:     ref.Hash(),
		headName: refName(ref),
		iter:     iter,
	}
	slog.Debug("ScanCommits session initialized", slog.String("head", s.scan.headName))
	return nil
}

func (s *scanSession) close() {
	if s == nil {
		return
	}
	if s.iter != nil {
		s.iter.Close()
	}
	s.iter = nil
	s.buffered = nil
	s.exhausted = true
}

func (s *scanSession) hasMore() (bool, error) {
	if s.exhausted {
		return false, nil
	}
	if s.buffered != nil {
		return true, nil
	}
	// Read-ahead a single commit into buffered so hasMore doesn't consume an extra commit.
	commit, err := s.iter.Next()
	if err != nil {
		if err == io.EOF {
			s.exhausted = true
			return false, nil
		}
		return false, fmt.Errorf("iterate commits: %w", err)
	}
	s.buffered = commit
	return true, nil
}

func (s *scanSession) next() (*object.Commit, error) {
	if s.exhausted {
		return nil, io.EOF
	}
	if s.buffered != nil {
		commit := s.buffered
		s.buffered = nil
		s.returned++
		return commit, nil
	}
	commit, err := s.iter.Next()
	if err != nil {
		if err == io.EOF {
			s.exhausted = true
		}
		return nil, err
	}
	s.returned++
	return commit, nil
}

func (s *scanSession) discard(count int) error {
	// Consume and drop commits to align the session position with the requested skip.
	for range count {
		if _, err := s.next(); err != nil {
			return err
		}
	}
	return nil
}

func newCommit(c *object.Commit) *Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, hash := range c.ParentHashes {
		parents = append(parents, hash.String())
	}
	return &Commit{
		Hash:      c.Hash.String(),
		Parents:   parents,
		Author:    Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer: Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Summary:   summaryLine(c.Message),
		Message:   c.Message,
	}
}

func summaryLine(message string) string {
	firstLine := strings.SplitN(strings.TrimSpace(message), "\n", 2)[0]
	if len(firstLine) > 80 {
		firstLine = firstLine[:77] + "..."
	}
	return firstLine
}

func refName(ref *plumbing.Reference) string {
	name := ref.Name().Short()
	if name == "" {
		name = ref.Name().String()
	}
	return name
}
