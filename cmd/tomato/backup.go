package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tomato/internal/backup"
	"tomato/internal/storage"

	"github.com/spf13/cobra"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of all data",
		Long: `Create a timestamped backup of sessions, tasks and settings.

Backups are stored in <data dir>/backups and can be restored with
'tomato restore'. They work with either storage backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, mgr, err := openBackups(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := store.Load()
			if err != nil {
				return fmt.Errorf("current data could not be read cleanly, not backing it up: %w", err)
			}
			name, err := mgr.Create(snap)
			if err != nil {
				return err
			}
			info, err := mgr.Get(name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Backup created: %s\n", name)
			fmt.Fprintf(out, "  Sessions: %d, Tasks: %d\n", info.Stats["sessions"], info.Stats["tasks"])
			fmt.Fprintf(out, "  Location: %s\n", info.Path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, mgr, err := openBackups(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			backups, err := mgr.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				fmt.Fprintln(out, "No backups available.")
				fmt.Fprintln(out, "Run 'tomato backup' to create one.")
				return nil
			}
			fmt.Fprintln(out, "Available backups:")
			for _, b := range backups {
				fmt.Fprintf(out, "  %s  (%s)   Sessions: %d, Tasks: %d\n",
					b.Name, b.CreatedAt.Format("Jan 2 15:04"), b.Stats["sessions"], b.Stats["tasks"])
			}
			return nil
		},
	}

	var keep int
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, mgr, err := openBackups(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := mgr.Prune(keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d backup(s), kept %d\n", deleted, keep)
			return nil
		},
	}
	pruneCmd.Flags().IntVar(&keep, "keep", 10, "number of backups to keep")

	cmd.AddCommand(listCmd, pruneCmd)
	return cmd
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	var latest, force bool

	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore data from a backup",
		Long: `Replace the current data with a backup. A safety backup of the current
data is taken first. Do not run this while tomato is open.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, mgr, err := openBackups(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			var info *backup.Info
			switch {
			case latest:
				info, err = mgr.Latest()
			case len(args) == 1:
				info, err = mgr.Get(args[0])
			default:
				return fmt.Errorf("no backup specified; use 'tomato restore NAME' or 'tomato restore --latest' (see 'tomato backup list')")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Sessions: %d, Tasks: %d\n\n", info.Stats["sessions"], info.Stats["tasks"])

			if !force && !confirm(cmd.InOrStdin(), out, "⚠ This will overwrite your current data.\nContinue? [y/N] ") {
				fmt.Fprintln(out, "Restore cancelled.")
				return nil
			}

			return restoreBackup(out, store, mgr, info.Name)
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	return cmd
}

// restoreBackup saves a safety backup of the current data and then writes
// the named backup through store.
func restoreBackup(out io.Writer, store storage.Store, mgr *backup.Manager, name string) error {
	snap, err := mgr.Load(name)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Creating safety backup first...")
	current, _ := store.Load()
	safety, err := mgr.Create(current)
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	if err := store.Save(snap); err != nil {
		return fmt.Errorf("failed to restore (safety backup: %s): %w", safety, err)
	}
	fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
	return nil
}

func openBackups(opts *rootOptions) (storage.Store, *backup.Manager, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(cfg.Storage, cfg.GetDataDir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, backup.NewManager(cfg.GetDataDir(), version), nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
