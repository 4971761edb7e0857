package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskdock/internal/inventory"
	"taskdock/internal/source"
	"taskdock/internal/task"
)

var (
	listPath     string
	listWorktree int64
	listRecent   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks from all registered sources in sorted order",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, _, err := buildInventory()
		if err != nil {
			return err
		}

		var worktree *inventory.WorktreeID
		if cmd.Flags().Changed("worktree") {
			id := inventory.WorktreeID(listWorktree)
			worktree = &id
		}

		printTasks(inv.ListTasks(listPath, worktree, listRecent))
		return nil
	},
}

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recently scheduled task, if it still resolves",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, _, err := buildInventory()
		if err != nil {
			return err
		}

		t, ok := inv.LastScheduled()
		if !ok {
			fmt.Println("no task scheduled yet")
			return nil
		}
		fmt.Println(t.Name())
		return nil
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show registered sources and their task counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, statics, err := buildInventory()
		if err != nil {
			return err
		}

		fmt.Printf("user input: %d oneshot task(s)\n", countOneshot(inv))
		for _, s := range statics {
			fmt.Printf("%s: %d task(s)\n", s.Path(), len(s.TasksForPath("")))
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch task definition files and reprint the listing on change",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, statics, err := buildInventory()
		if err != nil {
			return err
		}
		if len(statics) == 0 {
			return fmt.Errorf("no task files configured; nothing to watch")
		}

		w, err := source.NewWatcher()
		if err != nil {
			return err
		}
		for _, s := range statics {
			if err := w.Track(s); err != nil {
				return fmt.Errorf("watch %s: %w", s.Path(), err)
			}
		}

		refresh := make(chan struct{}, 1)
		cancel := inv.Subscribe(func() {
			select {
			case refresh <- struct{}{}:
			default:
			}
		})
		defer cancel()

		ctx := cmd.Context()
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		printTasks(inv.ListTasks("", nil, listRecent))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		for {
			select {
			case <-refresh:
				fmt.Println("---")
				printTasks(inv.ListTasks("", nil, listRecent))
			case <-sig:
				return nil
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listPath, "path", "", "advisory path passed to each source")
	listCmd.Flags().Int64Var(&listWorktree, "worktree", 0, "restrict worktree-scoped sources to this id")
	listCmd.Flags().BoolVar(&listRecent, "recent", false, "rank recently scheduled tasks first")
	watchCmd.Flags().BoolVar(&listRecent, "recent", false, "rank recently scheduled tasks first")
}

// buildInventory registers one oneshot source plus one static source
// per configured task file. Unreadable files are skipped with a
// warning; a half-configured inventory beats none.
func buildInventory() (*inventory.Inventory, []*source.Static, error) {
	inv := inventory.New()

	inv.AddSource(inventory.UserInput(), func() task.Source {
		return source.NewOneshot()
	})

	var statics []*source.Static
	for _, path := range cfg.TaskFiles {
		s, err := source.NewStatic(path)
		if err != nil {
			logger.Warn("Skipping task file", zap.String("path", path), zap.Error(err))
			continue
		}
		statics = append(statics, s)
		inv.AddSource(inventory.AbsPath(path), func() task.Source {
			return s
		})
	}
	return inv, statics, nil
}

func printTasks(tasks []inventory.SourcedTask) {
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	for _, st := range tasks {
		line := st.Task.Name()
		if spec, ok := st.Task.Spawn(""); ok {
			line = fmt.Sprintf("%-30s %s", line, strings.TrimSpace(spec.Command+" "+strings.Join(spec.Args, " ")))
		}
		fmt.Printf("%s  [%s]\n", line, st.Kind)
	}
}

func countOneshot(inv *inventory.Inventory) int {
	if o, ok := inventory.SourceAs[*source.Oneshot](inv); ok {
		return len(o.TasksForPath(""))
	}
	return 0
}
