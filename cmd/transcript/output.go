package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nijaru/yt-transcript/transcription"
	"github.com/nijaru/yt-transcript/vtt"
	"github.com/spf13/cobra"
)

func printTranscript(cmd *cobra.Command, transcript *transcription.Transcript, opts outputOptions) error {
	out := cmd.OutOrStdout()

	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(transcript)
	case opts.table:
		_, err := fmt.Fprintln(out, renderSegments(transcript.Segments))
		return err
	}

	for _, seg := range transcript.Segments {
		if _, err := fmt.Fprintf(out, "%s %s\n", vtt.FormatClock(seg.Start), seg.Text); err != nil {
			return err
		}
	}
	return nil
}

func renderSegments(segments []vtt.Segment) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Start", "Duration", "Text"})

	for _, seg := range segments {
		tw.AppendRow(table.Row{
			vtt.FormatClock(seg.Start),
			strconv.FormatFloat(seg.Duration, 'f', 3, 64),
			seg.Text,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 80},
	})

	return tw.Render()
}
