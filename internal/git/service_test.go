package git

import (
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestFormatCommitHeader(t *testing.T) {
	ts := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	commit := &Commit{
		Hash:    "1234567890abcdef1234567890abcdef12345678",
		Author:  Signature{Name: "Alice", Email: "alice@example.com", When: ts},
		Message: "Subject line\n\nBody line",
	}
	got := FormatCommitHeader(commit)
	if !strings.Contains(got, "commit 1234567890abcdef1234567890abcdef12345678") {
		t.Fatalf("header missing hash: %s", got)
	}
	if !strings.Contains(got, "Author: Alice <alice@example.com>") {
		t.Fatalf("header missing author: %s", got)
	}
	if !strings.Contains(got, "Subject line") || !strings.Contains(got, "Body line") {
		t.Fatalf("header missing message lines: %s", got)
	}
}

func TestFormatCommitHeaderFallsBackToAuthorAsCommitter(t *testing.T) {
	commit := &Commit{
		Hash:    "abcdef1234567890abcdef1234567890abcdef12",
		Author:  Signature{Name: "Alice", Email: "alice@example.com"},
		Message: "msg",
	}
	got := FormatCommitHeader(commit)
	if !strings.Contains(got, "Committer: Alice <alice@example.com>") {
		t.Fatalf("missing committer fallback: %s", got)
	}
}

func TestNewCommit(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	parent := plumbing.NewHash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	src := &object.Commit{
		Hash:         plumbing.NewHash("abcdef1234567890abcdef1234567890abcdef12"),
		ParentHashes: []plumbing.Hash{parent},
		Author:       object.Signature{Name: "Bob", Email: "bob@example.com", When: ts},
		Message:      "Hello World\n\nDetails here",
	}
	commit := newCommit(src)
	if commit.Hash != "abcdef1234567890abcdef1234567890abcdef12" {
		t.Fatalf("unexpected hash %s", commit.Hash)
	}
	if len(commit.Parents) != 1 || commit.Parents[0] != parent.String() {
		t.Fatalf("unexpected parents %v", commit.Parents)
	}
	if commit.Summary != "Hello World" {
		t.Fatalf("unexpected summary %q", commit.Summary)
	}
	if !commit.When().Equal(ts) {
		t.Fatalf("unexpected author time %v", commit.When())
	}
}

func TestSummaryLineTruncates(t *testing.T) {
	long := strings.Repeat("x", 120)
	got := summaryLine(long)
	if len(got) != 80 || !strings.HasSuffix(got, "...") {
		t.Fatalf("long summary not truncated: %q (len %d)", got, len(got))
	}
	if got := summaryLine("short\nrest"); got != "short" {
		t.Fatalf("summary should stop at first line, got %q", got)
	}
}
