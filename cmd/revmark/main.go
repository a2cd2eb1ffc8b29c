package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/revmark/revmark/internal/annotation"
	"github.com/revmark/revmark/internal/errs"
	"github.com/revmark/revmark/internal/export"
	"github.com/revmark/revmark/internal/fileenum"
	"github.com/revmark/revmark/internal/store"
	"github.com/revmark/revmark/internal/toolconfig"
	"github.com/revmark/revmark/internal/vcsdiff"
)

// version tracks the revmark release this binary reports to scripts that
// parse `revmark --version`.
const version = "0.3.0"

// log is the CLI-level diagnostic sink. The core never logs; only the
// command surface prints a single-line diagnostic on failure.
var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:     "revmark",
		Short:   "Attach and reconcile code-review annotations across repository changes",
		Version: version,
	}

	rootCmd.AddCommand(reviewCommand())
	rootCmd.AddCommand(adjustCommand())
	rootCmd.AddCommand(exportCommand())
	rootCmd.AddCommand(statusCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// repoLayout bundles the on-disk handles every command needs.
type repoLayout struct {
	root         string
	annotatorDir string
	store        *store.Store
	sessionPath  string
}

func resolveLayout(path string) (repoLayout, error) {
	root, err := findRepoRoot(path)
	if err != nil {
		return repoLayout{}, err
	}
	annotatorDir := filepath.Join(root, ".revmark")
	return repoLayout{
		root:         root,
		annotatorDir: annotatorDir,
		store:        store.New(annotatorDir),
		sessionPath:  filepath.Join(annotatorDir, "session.json"),
	}, nil
}

// findRepoRoot locates the work tree root for path by delegating to
// go-git's own repository discovery, which walks up looking for ".git".
// Bare repositories are rejected.
func findRepoRoot(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errs.Wrap(errs.RepoBoundary, path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", errs.Wrap(errs.RepoBoundary, "bare repositories are not supported", err)
	}
	return wt.Filesystem.Root(), nil
}

func reviewCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Reconcile annotations against repository changes since the last session",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := reconcile(path, false)
			if err != nil {
				return err
			}
			fmt.Println(summary.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", ".", "path to the repository")
	return cmd
}

func adjustCommand() *cobra.Command {
	var path string
	var autoResolve bool
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Batch-reconcile annotation positions after code changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := reconcile(path, autoResolve)
			if err != nil {
				return err
			}
			fmt.Println(summary.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", ".", "path to the repository")
	cmd.Flags().BoolVar(&autoResolve, "auto-resolve", false, "shrink conflicting annotations to their surviving lines instead of leaving them for manual resolution")
	return cmd
}

func exportCommand() *cobra.Command {
	var path string
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted annotations",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout(path)
			if err != nil {
				return err
			}
			annotations, err := layout.store.LoadAnnotations()
			if err != nil {
				return errs.WrapIfUntagged(errs.StoreIO, "load annotations", err)
			}

			switch format {
			case "markdown":
				fmt.Print(export.Markdown(annotations))
			case "json":
				out, err := export.JSON(annotations)
				if err != nil {
					return err
				}
				fmt.Println(out)
			default:
				return fmt.Errorf("unknown export format %q, want markdown or json", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", ".", "path to the repository")
	cmd.Flags().StringVar(&format, "format", "markdown", "export format: markdown or json")
	return cmd
}

func statusCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show review progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout(path)
			if err != nil {
				return err
			}
			annotations, err := layout.store.LoadAnnotations()
			if err != nil {
				return errs.WrapIfUntagged(errs.StoreIO, "load annotations", err)
			}
			cfg, err := toolconfig.Load(layout.root)
			if err != nil {
				return err
			}
			bridge, err := vcsdiff.Open(layout.root, cfg.HunkContext, fileenum.Policy{ExtraExtensions: cfg.ExtraBinaryExtensions})
			if err != nil {
				return err
			}
			files, err := bridge.ListTrackedFiles(context.Background(), layout.root)
			if err != nil {
				return err
			}
			statuses, err := layout.store.LoadFileStatuses()
			if err != nil {
				return errs.WrapIfUntagged(errs.StoreIO, "load file status", err)
			}

			printStatus(files, statuses, annotations)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", ".", "path to the repository")
	return cmd
}

func printStatus(files []string, statuses []annotation.FileReviewState, annotations []annotation.Annotation) {
	total := len(files)
	var clean, annotated int
	for _, s := range statuses {
		switch s.Status {
		case annotation.Clean:
			clean++
		case annotation.Annotated:
			annotated++
		}
	}
	unreviewed := total - clean - annotated

	fmt.Println("Review Progress")
	fmt.Println("===============")
	fmt.Printf("Total files:   %d\n", total)
	fmt.Printf("Unreviewed:    %d\n", unreviewed)
	fmt.Printf("Annotated:     %d\n", annotated)
	fmt.Printf("Clean:         %d\n", clean)
	fmt.Printf("Annotations:   %d\n", len(annotations))

	if total > 0 {
		pct := float64(clean+annotated) / float64(total) * 100
		fmt.Printf("Progress:      %.0f%%\n", pct)
	}
}
