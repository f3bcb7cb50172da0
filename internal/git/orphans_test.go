package git

import "testing"

func window(commits ...*Commit) []*Commit { return commits }

func c(hash string, parents ...string) *Commit {
	return &Commit{Hash: hash, Parents: parents}
}

func tips(hashes ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		m[h] = struct{}{}
	}
	return m
}

func TestMarkOrphansReachableChain(t *testing.T) {
	commits := window(c("a", "b"), c("b", "d"), c("d"))
	if got := markOrphans(commits, tips("a")); got != 0 {
		t.Fatalf("expected no orphans, got %d", got)
	}
	for _, commit := range commits {
		if commit.Orphaned {
			t.Fatalf("commit %s wrongly orphaned", commit.Hash)
		}
	}
}

func TestMarkOrphansUnreachableCommit(t *testing.T) {
	// o's only parent is outside the window and no tip points at it.
	commits := window(c("a", "b"), c("o", "gone"), c("b"))
	if got := markOrphans(commits, tips("a")); got != 1 {
		t.Fatalf("expected 1 orphan, got %d", got)
	}
	for _, commit := range commits {
		if commit.Orphaned != (commit.Hash == "o") {
			t.Fatalf("commit %s orphaned=%v", commit.Hash, commit.Orphaned)
		}
	}
}

func TestMarkOrphansMergeReachesBothSides(t *testing.T) {
	commits := window(c("m", "x", "y"), c("x", "d"), c("y", "d"), c("d"))
	if got := markOrphans(commits, tips("m")); got != 0 {
		t.Fatalf("merge parents should be reachable, got %d orphans", got)
	}
}

func TestMarkOrphansSecondTipRescues(t *testing.T) {
	commits := window(c("a", "b"), c("o", "p"), c("b"), c("p"))
	if got := markOrphans(commits, tips("a")); got != 2 {
		t.Fatalf("expected o and p orphaned, got %d", got)
	}
	if got := markOrphans(commits, tips("a", "o")); got != 0 {
		t.Fatalf("tip on o should rescue its chain, got %d orphans", got)
	}
}

func TestMarkOrphansClearsStaleFlags(t *testing.T) {
	stale := c("a")
	stale.Orphaned = true
	if got := markOrphans(window(stale), tips("a")); got != 0 {
		t.Fatalf("expected no orphans, got %d", got)
	}
	if stale.Orphaned {
		t.Fatalf("rebuild should clear a stale orphan flag")
	}
}
