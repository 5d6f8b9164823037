package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/TxnLab/stakeview/internal/lib/ranking"
)

func (app *StakeviewApp) rankCommand() *cli.Command {
	return &cli.Command{
		Name:    "rank",
		Aliases: []string{"r"},
		Usage:   "Delegator ranking by total stake across all validators",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List one page of the ranking",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number, starting at 1",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: fmt.Sprintf("Entries per page (max %d)", ranking.MaxLimit),
						Value: ranking.DefaultLimit,
					},
				},
				Action: app.RankList,
			},
			{
				Name:  "of",
				Usage: "Show the rank and per validator stake of one delegator",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Delegator address",
						Required: true,
					},
				},
				Action: app.RankOf,
			},
		},
	}
}

func (app *StakeviewApp) RankList(ctx context.Context, cmd *cli.Command) error {
	page, err := app.dash.Ranking(ctx, int(cmd.Int("page")), int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	out := new(bytes.Buffer)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Rank\tDelegator\tTotal Staked\tPct\t")
	for _, e := range page.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", e.Rank, e.DelegatorAddress, strconv.FormatFloat(e.TotalStake, 'f', 4, 64), e.PercentOfTotal)
	}
	tw.Flush()

	p, s := page.Pagination, page.Summary
	fmt.Fprintf(out, "Page %d of %d (%d delegators)\n", p.Page, p.TotalPages, p.Total)
	fmt.Fprintf(out, "Total Staked: %s  Average: %.4f  Median: %.4f  Largest: %.4f\n",
		strconv.FormatFloat(s.TotalStake, 'f', 4, 64), s.AverageStake, s.MedianStake, s.LargestStake)
	fmt.Fprintf(out, "Top 10 Share: %.2f%%  Gini: %.4f (%s)\n", s.Top10Share, s.Gini, s.Concentration)
	if page.Degraded {
		fmt.Fprintln(out, "WARNING: some stakes could not be read, ranking is incomplete")
	}
	_, err = io.Copy(cmd.Root().Writer, out)
	return err
}

func (app *StakeviewApp) RankOf(ctx context.Context, cmd *cli.Command) error {
	pos, err := app.dash.RankOf(ctx, cmd.String("address"))
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	if !pos.Found {
		fmt.Fprintf(w, "%s has no stake with any validator (%d delegators ranked)\n", pos.DelegatorAddress, pos.TotalDelegators)
		return nil
	}
	fmt.Fprintf(w, "Delegator: %s\n", pos.DelegatorAddress)
	fmt.Fprintf(w, "Rank: %d of %d (percentile %.2f)\n", *pos.Rank, pos.TotalDelegators, pos.Percentile)
	fmt.Fprintf(w, "Total Staked: %s\n", strconv.FormatFloat(pos.TotalStake, 'f', 4, 64))

	out := new(bytes.Buffer)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Validator\tStaked\t")
	for _, b := range pos.Breakdown {
		fmt.Fprintf(tw, "%s\t%s\t\n", b.Validator, strconv.FormatFloat(b.Stake, 'f', 4, 64))
	}
	tw.Flush()
	_, err = io.Copy(w, out)
	return err
}
