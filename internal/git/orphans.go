package git

import "log/slog"

// MarkOrphans flags every commit in the window that is unreachable from
// any branch tip, walking parent edges inside the window only. The flag
// drives the reserved orphan color in the graph.
func (s *Service) MarkOrphans(commits []*Commit) error {
	tips, err := s.branchTips()
	if err != nil {
		return err
	}
	orphans := markOrphans(commits, tips)
	if orphans > 0 {
		slog.Debug("orphan scan", slog.Int("window", len(commits)), slog.Int("orphaned", orphans))
	}
	return nil
}

func markOrphans(commits []*Commit, tips map[string]struct{}) int {
	byHash := make(map[string]*Commit, len(commits))
	for _, c := range commits {
		byHash[c.Hash] = c
		c.Orphaned = false
	}

	reached := make(map[string]struct{}, len(commits))
	var stack []string
	for _, c := range commits {
		if _, ok := tips[c.Hash]; ok {
			stack = append(stack, c.Hash)
		}
	}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reached[hash]; ok {
			continue
		}
		reached[hash] = struct{}{}
		c, ok := byHash[hash]
		if !ok {
			// Parent outside the window; the walk stops here.
			continue
		}
		stack = append(stack, c.Parents...)
	}

	orphans := 0
	for _, c := range commits {
		if _, ok := reached[c.Hash]; !ok {
			c.Orphaned = true
			orphans++
		}
	}
	return orphans
}
