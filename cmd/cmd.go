package cmd

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/thiagokokada/gitgraph-go/internal/buildinfo"
	"github.com/thiagokokada/gitgraph-go/internal/config"
	"github.com/thiagokokada/gitgraph-go/internal/git"
	"github.com/thiagokokada/gitgraph-go/internal/highlight"
	"github.com/thiagokokada/gitgraph-go/internal/layout"
	"github.com/thiagokokada/gitgraph-go/internal/render"
	"github.com/thiagokokada/gitgraph-go/internal/watch"
)

func Run() error {
	return run(os.Args[1:])
}

func run(args []string) error {
	fs := flag.NewFlagSet("gitgraph-go", flag.ContinueOnError)
	limit := fs.Int("limit", git.DefaultBatch, "number of commits to load per batch")
	all := fs.Bool("all", false, "load the entire history instead of a single batch")
	strength := fs.Float64("strength", -1, "time spacing strength: 0 uniform, 1 default, >1 exaggerated (-1 uses the settings file)")
	mode := fs.String("mode", render.ThemeAuto.String(), "color mode: auto, light, or dark")
	follow := fs.Bool("watch", false, "re-render when the repository changes")
	show := fs.String("show", "", "print the given commit with its diff and exit")
	local := fs.Bool("local", false, "print uncommitted worktree changes and exit")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println(buildinfo.VersionWithRevision())
		return nil
	}
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	repoPath := "."
	if remaining := fs.Args(); len(remaining) > 0 {
		repoPath = remaining[len(remaining)-1]
	}

	svc, err := git.Open(repoPath)
	if err != nil {
		return err
	}
	cfg := config.Load()
	cfg.RememberRepo(svc.RepoPath())
	if err := cfg.Save(); err != nil {
		slog.Debug("settings save", slog.Any("error", err))
	}
	theme := render.ThemeForPreference(render.ThemePreferenceFromString(*mode))

	if *show != "" {
		patch, err := svc.CommitPatch(*show)
		if err != nil {
			return err
		}
		fmt.Println(highlight.Diff(patch, theme.Dark))
		return nil
	}
	if *local {
		diff, err := svc.WorktreeDiff()
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("No local changes.")
			return nil
		}
		fmt.Println(highlight.Diff(diff, theme.Dark))
		return nil
	}

	spacing := cfg.SpacingStrength
	if *strength >= 0 {
		spacing = *strength
	}
	g := grapher{
		svc:     svc,
		theme:   theme,
		spacing: spacing,
		limit:   *limit,
		all:     *all,
	}
	if err := g.render(os.Stdout); err != nil {
		return err
	}
	if !*follow {
		return nil
	}

	w, err := watch.Start(svc.RepoPath(), watch.DefaultDebounceDelay, func() {
		if err := g.render(os.Stdout); err != nil {
			slog.Error("render after reload", slog.Any("error", err))
		}
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Debug("watcher close", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

// grapher holds everything needed to rebuild and print the graph; render
// is re-entered by the watcher callback, so it serializes itself.
type grapher struct {
	mu      sync.Mutex
	svc     *git.Service
	theme   render.Theme
	spacing float64
	limit   int
	all     bool
}

func (g *grapher) render(out *os.File) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	commits, err := g.loadWindow()
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		fmt.Fprintln(out, "No commits.")
		return nil
	}
	if err := g.svc.MarkOrphans(commits); err != nil {
		return err
	}
	labels, err := g.svc.BranchLabels()
	if err != nil {
		return err
	}

	alloc := layout.NewLaneAllocator(g.theme.Palette)
	layouts := alloc.Build(commits)
	offsets := layout.NewRowSpacer(1, g.spacing).Offsets(commits)
	return render.New(g.theme).Render(out, commits, layouts, offsets, labels, alloc.MaxLane())
}

// loadWindow pulls one batch, or keeps scanning until the history is
// exhausted when -all is set. Each call rebuilds the window from scratch.
func (g *grapher) loadWindow() ([]*git.Commit, error) {
	var commits []*git.Commit
	skip := 0
	for {
		batch, head, hasMore, err := g.svc.ScanCommits(skip, g.limit)
		if err != nil {
			return nil, err
		}
		slog.Debug("window batch",
			slog.String("head", head),
			slog.Int("commits", len(batch)),
			slog.Bool("has_more", hasMore),
		)
		commits = append(commits, batch...)
		skip += len(batch)
		if !g.all || !hasMore || len(batch) == 0 {
			return commits, nil
		}
	}
}
