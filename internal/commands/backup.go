package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindjourney-backend/internal/client"
)

func addBackup(topLevel *cobra.Command) {
	var watch bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot entries, check-ins and the draft to local storage.",
		Example: `
mindjourney backup
mindjourney backup --watch
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			b, err := c.Backup(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := oo.Print(b, func() { printBackup(b, "Backed up") }); err != nil {
				return err
			}
			if watch {
				linef("%s\n", faint("Backing up every "+client.BackupInterval.String()+", Ctrl-C to stop."))
				c.RunBackups(ctx, client.BackupInterval)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and back up on an interval.")

	topLevel.AddCommand(cmd)
}

func addRestore(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace local entries and check-ins with the last backup.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			b, err := c.RestoreBackup(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(b, func() { printBackup(b, "Restored") })
		},
	}

	topLevel.AddCommand(cmd)
}

func printBackup(b *client.Backup, verb string) {
	linef("%s %d entries and %d check-ins from %s.\n", verb, len(b.Entries), len(b.Moods), b.CreatedAt.Local().Format("Jan 2 15:04"))
}
