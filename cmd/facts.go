package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newFactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Inspect and run the facts collection loop",
	}
	cmd.AddCommand(newFactsRunCmd())
	cmd.AddCommand(newFactsKindsCmd())
	return cmd
}

func newFactsRunCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the facts collection loop until cancelled",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(configDir, "", false)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.Orchestrator == nil {
				return fmt.Errorf("facts collection is disabled (set global.enabled: true in facts.yaml)")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				fmt.Println("\nreceived interrupt signal, shutting down...")
				cancel()
			}()

			return a.Orchestrator.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&configDir, "config", "", "directory holding config.yaml and facts.yaml")
	return cmd
}

func newFactsKindsCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List registered facts collector kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(configDir, "", false)
			if err != nil {
				return err
			}
			defer a.Close()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{text.Colors{text.FgHiBlue, text.Bold}.Sprint("KIND")})
			for _, kind := range a.FactsRegistry.Kinds() {
				t.AppendRow(table.Row{kind})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config", "", "directory holding config.yaml and facts.yaml")
	return cmd
}
