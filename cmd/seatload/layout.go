package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newLayoutCmd(root *rootOptions) *cobra.Command {
	var eventID string
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Render the seat layout of an event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAPIClient(root.api, root.timeout)
			layout, err := client.layout(cmd.Context(), eventID)
			if err != nil {
				return err
			}
			renderLayout(cmd.OutOrStdout(), eventID, layout)
			return nil
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "event id (required)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

const (
	cellFree  = "."
	cellTaken = "X"
)

// renderLayout prints one table row per seat row. Positions without a seat stay blank.
func renderLayout(w io.Writer, eventID string, layout [][]layoutCell) {
	cols := 0
	for _, row := range layout {
		cols = max(cols, len(row))
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("event " + eventID)

	header := table.Row{""}
	configs := make([]table.ColumnConfig, 0, cols)
	for c := 1; c <= cols; c++ {
		header = append(header, c)
		configs = append(configs, table.ColumnConfig{Number: c + 1, Align: text.AlignCenter})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	free, taken := 0, 0
	for r, row := range layout {
		line := table.Row{r + 1}
		for _, cell := range row {
			switch {
			case !cell.exists:
				line = append(line, "")
			case cell.reservationID == "":
				free++
				line = append(line, cellFree)
			default:
				taken++
				line = append(line, cellTaken)
			}
		}
		t.AppendRow(line)
	}
	t.Render()
	fmt.Fprintf(w, "free %d, taken %d\n", free, taken)
}
