package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmorganca/valord/envconfig"
	"github.com/jmorganca/valord/feed"
	"github.com/jmorganca/valord/format"
	"github.com/jmorganca/valord/valord"
)

type headSnapshot = valord.Snapshot[string, int64, feed.Record]

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Apply events and print every change to the highest score",
		Long: "Apply JSON-lines events from file (or stdin) while a watcher prints each new leader.\n" +
			"Leaders that come and go faster than they are printed are skipped.",
		RunE: watchHandler,
	}

	cmd.Flags().Duration("interval", 0, "Pause between events (default from VALORD_INTERVAL)")
	cmd.Flags().Bool("check", false, "Verify index invariants after every event (default from VALORD_CHECK)")

	return cmd
}

func watchHandler(cmd *cobra.Command, args []string) error {
	interval := envconfig.Interval
	if cmd.Flags().Changed("interval") {
		interval, _ = cmd.Flags().GetDuration("interval")
	}
	if interval < 0 {
		return fmt.Errorf("invalid --interval %s: must not be negative", interval)
	}

	r, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer r.Close()

	board := feed.NewBoard()
	w := board.Watcher()
	out := cmd.OutOrStdout()
	start := time.Now()

	var printed *headSnapshot
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		defer board.Close()
		n, err := feed.Replay(ctx, r, board, feed.Options{
			Interval: interval,
			Check:    boolFlag(cmd, "check", envconfig.Check),
		})
		slog.Debug("watch: feed finished", "events", n, "error", err)
		return err
	})
	g.Go(func() error {
		for {
			s, err := w.HeadChanged(ctx)
			if errors.Is(err, valord.ErrClosed) {
				return nil
			} else if err != nil {
				return err
			}
			printHead(out, start, s)
			printed = s
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// the board can close before the last head is observed
	if last := w.Latest(); last != printed {
		printHead(out, start, last)
	}
	return nil
}

func printHead(w io.Writer, start time.Time, s *headSnapshot) {
	if s == nil {
		fmt.Fprintf(w, "%-8s empty\n", "+"+format.Since(start, ""))
		return
	}

	names := make([]string, len(s.Entries))
	for i, p := range s.Entries {
		names[i] = p.Key
		if p.Value.Name != "" {
			names[i] += " (" + p.Value.Name + ")"
		}
	}
	fmt.Fprintf(w, "%-8s %s\t%s\n", "+"+format.Elapsed(s.At.Sub(start)), format.HumanNumber(s.Order), strings.Join(names, ", "))
}
