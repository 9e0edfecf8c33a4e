package main

import (
	"github.com/nijaru/yt-transcript/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// outputOptions selects how segments are printed.
type outputOptions struct {
	json  bool
	table bool
}

func newRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "transcript",
		Short:         "Fetch and parse YouTube caption transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			if _, err := logger.Setup(logger.Config{Level: level}); err != nil {
				return err
			}
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log subtitle tool activity to stderr")

	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newParseCommand())

	return rootCmd
}

func addOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print segments as JSON")
	cmd.Flags().BoolVar(&opts.table, "table", false, "Print segments as a table")
	cmd.MarkFlagsMutuallyExclusive("json", "table")
}
