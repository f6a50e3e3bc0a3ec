package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reciperadar",
		Short: "Score recipe nutrition and build a recipe similarity index",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(runCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(similarCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(daemonCmd())

	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full preprocessing pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline()
		},
	}
}

func scoreCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show the health-score breakdown for one recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(id)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "recipe id")
	cmd.MarkFlagRequired("id")
	return cmd
}

func similarCmd() *cobra.Command {
	var (
		id         int64
		k          int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Show the most similar recipes for one recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimilar(id, k, jsonOutput)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "recipe id")
	cmd.Flags().IntVar(&k, "k", 0, "number of neighbours (default: from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.MarkFlagRequired("id")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the enriched recipe table to a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output .xlsx path (default: from config)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func daemonCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start daemon with periodic rebuilds and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
