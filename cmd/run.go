package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var configDir, applyConfigPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the apply loop and facts loop until cancelled",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(configDir, applyConfigPath, dryRun)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				fmt.Println("\nreceived interrupt signal, shutting down...")
				cancel()
			}()

			return a.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&configDir, "config", "", "directory holding config.yaml and facts.yaml")
	cmd.Flags().StringVar(&applyConfigPath, "apply-config", "apply.yaml", "apply task list file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report intended changes without applying them")
	return cmd
}
