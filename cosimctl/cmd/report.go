package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cosim/datarecording"
)

var reportCmd = &cobra.Command{
	Use:   "report <recording.sqlite3>",
	Short: "Summarize the activations of a recorded run.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

type kindReport struct {
	count      int
	first      float64
	last       float64
	maxLag     float64
	maxHorizon float64
}

func report(ctx context.Context, out io.Writer, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	reader.MapTable(datarecording.ExecTable, datarecording.ExecInfo{})
	reader.MapTable(datarecording.ActivationTable, datarecording.Activation{})

	execInfo, _, err := reader.Query(ctx, datarecording.ExecTable,
		datarecording.QueryParams{})
	if err != nil {
		return fmt.Errorf("reading %s: %w", datarecording.ExecTable, err)
	}

	activations, total, err := reader.Query(ctx, datarecording.ActivationTable,
		datarecording.QueryParams{OrderBy: "Time"})
	if err != nil {
		return fmt.Errorf("reading %s: %w", datarecording.ActivationTable, err)
	}

	var kinds []string
	reports := make(map[string]*kindReport)

	for _, row := range activations {
		a := row.(*datarecording.Activation)

		r, ok := reports[a.Kind]
		if !ok {
			r = &kindReport{first: a.Time}
			reports[a.Kind] = r
			kinds = append(kinds, a.Kind)
		}

		r.count++
		r.last = a.Time
		r.maxLag = max(r.maxLag, a.ContinuousTime-a.Time)
		r.maxHorizon = max(r.maxHorizon, a.Horizon)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	for _, row := range execInfo {
		info := row.(*datarecording.ExecInfo)
		fmt.Fprintf(w, "%s\t%s\n", info.Property, info.Value)
	}

	fmt.Fprintf(w, "Activations\t%d\n\n", total)
	fmt.Fprintln(w, "KIND\tCOUNT\tFIRST\tLAST\tMAX LAG\tHORIZON")

	for _, kind := range kinds {
		r := reports[kind]
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%.6f\t%g\n",
			kind, r.count, r.first, r.last, r.maxLag, r.maxHorizon)
	}

	return w.Flush()
}
