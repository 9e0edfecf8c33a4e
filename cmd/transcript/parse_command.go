package main

import (
	"io"
	"os"

	"github.com/nijaru/yt-transcript/transcription"
	"github.com/nijaru/yt-transcript/vtt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newParseCommand() *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "parse <file.vtt|->",
		Short: "Parse a WebVTT caption file into timed segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open caption file")
				}
				defer f.Close()
				r = f
			}

			segments, err := vtt.Parse(r)
			if err != nil {
				return errors.Wrapf(err, "parse %s", args[0])
			}

			return printTranscript(cmd, &transcription.Transcript{Segments: segments}, opts)
		},
	}

	addOutputFlags(cmd, &opts)
	return cmd
}
