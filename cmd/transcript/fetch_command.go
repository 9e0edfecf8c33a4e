package main

import (
	"fmt"

	"github.com/nijaru/yt-transcript/config"
	"github.com/nijaru/yt-transcript/transcription"
	"github.com/nijaru/yt-transcript/videoid"
	"github.com/nijaru/yt-transcript/ytdlp"
	"github.com/spf13/cobra"
)

func newFetchCommand() *cobra.Command {
	// Defaults come from the same environment the server reads.
	cfg := config.LoadConfig()

	var opts outputOptions
	binary := cfg.YtDlpPath
	language := cfg.SubLang
	workDir := cfg.WorkDir
	timeout := cfg.FetchTimeout

	cmd := &cobra.Command{
		Use:   "fetch <video-url-or-id>",
		Short: "Download and print the automatic captions of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if !videoid.LooksValid(input) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q does not look like a YouTube URL or video id\n", input)
			}

			runner := ytdlp.NewRunner(ytdlp.Config{
				Binary:   binary,
				Language: language,
				Timeout:  timeout,
			})
			if err := runner.Check(); err != nil {
				return err
			}

			service := transcription.NewTranscriptionService(runner, transcription.Config{
				WorkDir:  workDir,
				Language: language,
			})
			transcript, err := service.Fetch(cmd.Context(), input)
			if err != nil {
				return err
			}

			return printTranscript(cmd, transcript, opts)
		},
	}

	cmd.Flags().StringVar(&binary, "yt-dlp", binary, "Path to the yt-dlp binary")
	cmd.Flags().StringVarP(&language, "lang", "l", language, "Subtitle language to request")
	cmd.Flags().StringVar(&workDir, "work-dir", workDir, "Directory for temporary caption files")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "Maximum time to wait for yt-dlp")
	addOutputFlags(cmd, &opts)

	return cmd
}
