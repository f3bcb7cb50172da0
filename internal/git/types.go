package git

import "time"

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit is a single history entry in the currently loaded window.
type Commit struct {
	Hash      string
	Parents   []string
	Author    Signature
	Committer Signature
	Summary   string
	Message   string

	// Orphaned marks commits unreachable from any branch tip within the
	// loaded window, e.g. left behind by a rebase but still in the store.
	Orphaned bool
}

// When returns the author timestamp, the time axis used for row spacing.
func (c *Commit) When() time.Time { return c.Author.When }
