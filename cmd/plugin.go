package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newPluginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Scan and load WebAssembly plugins",
	}
	cmd.AddCommand(newPluginScanCmd())
	cmd.AddCommand(newPluginListCmd())
	return cmd
}

func newPluginScanCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List plugin modules discovered in the plugin directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(configDir, "", false)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.PluginHost == nil {
				return fmt.Errorf("plugin host is disabled (set plugin.dir in config.yaml)")
			}

			names, err := a.PluginHost.Scan()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			fmt.Fprintf(os.Stderr, "%d plugin(s) discovered\n", len(names))
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config", "", "directory holding config.yaml and facts.yaml")
	return cmd
}

func newPluginListCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Load every discovered plugin and list its contributions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(configDir, "", false)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.PluginHost == nil {
				return fmt.Errorf("plugin host is disabled (set plugin.dir in config.yaml)")
			}

			for name, loadErr := range a.PluginHost.LoadAll(cmd.Context()) {
				fmt.Fprintf(os.Stderr, "%s: %v\n", name, loadErr)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{
				text.Colors{text.FgHiBlue, text.Bold}.Sprint("PLUGIN"),
				text.Colors{text.FgHiBlue, text.Bold}.Sprint("TASKS"),
				text.Colors{text.FgHiBlue, text.Bold}.Sprint("COLLECTORS"),
				text.Colors{text.FgHiBlue, text.Bold}.Sprint("EXTENSIONS"),
			})
			for _, s := range a.PluginHost.LoadedPlugins() {
				t.AppendRow(table.Row{s.Name, s.Tasks, s.Collectors, s.Extensions})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config", "", "directory holding config.yaml and facts.yaml")
	return cmd
}
