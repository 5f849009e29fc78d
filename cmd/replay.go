package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jmorganca/valord/envconfig"
	"github.com/jmorganca/valord/feed"
	"github.com/jmorganca/valord/format"
	"github.com/jmorganca/valord/internal/orderedmap"
	"github.com/jmorganca/valord/orderindex"
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [file]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Apply events and print the resulting ranking",
		Long:  "Apply JSON-lines events from file (or stdin) to an empty board and print its entries ordered by score.",
		RunE:  replayHandler,
	}

	cmd.Flags().Bool("desc", false, "Print the highest scores first (default from VALORD_DESC)")
	cmd.Flags().String("from", "", "Only print scores at or above this value")
	cmd.Flags().String("to", "", "Only print scores at or below this value")
	cmd.Flags().Bool("head", false, "Only print the entries tied on the highest score")
	cmd.Flags().Bool("json", false, "Print a JSON object keyed by entry, in rank order")
	cmd.Flags().Bool("check", false, "Verify index invariants after every event (default from VALORD_CHECK)")

	return cmd
}

// openInput returns the named file, or stdin when args is empty.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

// boolFlag returns the flag's value if it was set and def otherwise.
func boolFlag(cmd *cobra.Command, name string, def bool) bool {
	if !cmd.Flags().Changed(name) {
		return def
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func scoreBounds(cmd *cobra.Command) (orderindex.Bounds[int64], error) {
	var b orderindex.Bounds[int64]
	for _, end := range []struct {
		flag  string
		bound *orderindex.Bound[int64]
	}{
		{"from", &b.Lower},
		{"to", &b.Upper},
	} {
		s, _ := cmd.Flags().GetString(end.flag)
		if s == "" {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return b, fmt.Errorf("invalid --%s %q: %w", end.flag, s, err)
		}
		*end.bound = orderindex.Bound[int64]{Value: n, Kind: orderindex.Included}
	}
	return b, nil
}

func replayHandler(cmd *cobra.Command, args []string) error {
	bounds, err := scoreBounds(cmd)
	if err != nil {
		return err
	}

	r, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer r.Close()

	board := feed.NewBoard()
	defer board.Close()

	opts := feed.Options{Check: boolFlag(cmd, "check", envconfig.Check)}
	if _, err := feed.Replay(cmd.Context(), r, board, opts); err != nil {
		return err
	}

	var rows iter.Seq2[string, feed.Record]
	switch {
	case boolFlag(cmd, "head", false):
		rows = func(yield func(string, feed.Record) bool) {
			for _, p := range board.Last() {
				if !yield(p.Key, p.Value) {
					return
				}
			}
		}
	case boolFlag(cmd, "desc", envconfig.Descending):
		rows = board.RevRange(bounds)
	default:
		rows = board.Range(bounds)
	}

	if boolFlag(cmd, "json", false) {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	writeTable(cmd.OutOrStdout(), rows)
	return nil
}

func writeJSON(w io.Writer, rows iter.Seq2[string, feed.Record]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(orderedmap.Collect(rows))
}

func writeTable(w io.Writer, rows iter.Seq2[string, feed.Record]) {
	var data [][]string
	for k, r := range rows {
		data = append(data, []string{strconv.Itoa(len(data) + 1), k, r.Name, format.HumanNumber(r.Score)})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"RANK", "KEY", "NAME", "SCORE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
