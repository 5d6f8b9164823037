package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/TxnLab/stakeview/internal/lib/stats"
)

func (app *StakeviewApp) statsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Network wide statistics: stake concentration and stake, commission and APR distributions",
		Action: app.NetworkStats,
	}
}

func (app *StakeviewApp) NetworkStats(ctx context.Context, cmd *cli.Command) error {
	rep, err := app.dash.NetworkStats(ctx)
	if err != nil {
		return err
	}
	out := new(bytes.Buffer)
	fmt.Fprintf(out, "Block: %d\n", rep.BlockNumber)
	fmt.Fprintf(out, "Validators: %d (%d active)\n", rep.ValidatorCount, rep.ActiveCount)
	fmt.Fprintf(out, "Total Staked: %.4f (network reported %.4f)\n", rep.TotalStake, rep.TotalNetworkStake)
	fmt.Fprintf(out, "Stake Gini: %.4f (%s)\n", rep.StakeGini, rep.Concentration)
	for _, d := range []stats.Distribution{rep.Stake, rep.Commission, rep.APR} {
		fmt.Fprintln(out)
		writeDistribution(out, d)
	}
	if rep.Degraded {
		fmt.Fprintln(out, "\nWARNING: some upstream reads failed, statistics are incomplete")
	}
	_, err = io.Copy(cmd.Root().Writer, out)
	return err
}

// writeDistribution prints a distribution summary followed by a bar per bucket.
func writeDistribution(out io.Writer, d stats.Distribution) {
	fmt.Fprintf(out, "%s: count %d  min %.4f  max %.4f  avg %.4f  median %.4f\n", d.Label, d.Count, d.Min, d.Max, d.Average, d.Median)
	if len(d.Buckets) == 0 {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, b := range d.Buckets {
		fmt.Fprintf(tw, "  %.4f - %.4f\t%d\t%5.1f%%\t%s\n", b.Min, b.Max, b.Count, b.Percentage, strings.Repeat("#", int(b.Percentage/2)))
	}
	tw.Flush()
}
