package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jmorganca/valord/envconfig"
	"github.com/jmorganca/valord/logutil"
)

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "valord",
		Short: "Replay keyed score events into a value-ordered map",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Disable usage printing on errors
			cmd.SilenceUsage = true

			if err := LoadDotEnv(envconfig.Home()); err != nil {
				return err
			}
			envconfig.LoadConfig()
			slog.SetDefault(logutil.NewLogger(os.Stderr, logutil.Level(envconfig.Debug)))
			return nil
		},
	}

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewReplayCmd(),
		NewWatchCmd(),
		NewEnvCmd(),
	)

	return rootCmd
}

func NewEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Args:  cobra.NoArgs,
		Short: "Show the environment settings in effect",
		RunE:  envHandler,
	}
	cmd.Flags().Bool("example", false, "Print an example config.toml instead")
	return cmd
}

func envHandler(cmd *cobra.Command, _ []string) error {
	if example, _ := cmd.Flags().GetBool("example"); example {
		_, err := fmt.Fprint(cmd.OutOrStdout(), envconfig.GenerateExampleConfig())
		return err
	}

	var data [][]string
	for _, v := range envconfig.AsMap() {
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}
	sort.Slice(data, func(i, j int) bool { return data[i][0] < data[j][0] })

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
