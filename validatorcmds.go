package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli/v3"

	"github.com/TxnLab/stakeview/internal/lib/dashboard"
	"github.com/TxnLab/stakeview/internal/lib/staking"
	"github.com/TxnLab/stakeview/internal/lib/yield"
)

func (app *StakeviewApp) validatorCommand() *cli.Command {
	return &cli.Command{
		Name:    "validator",
		Aliases: []string{"v"},
		Usage:   "Inspect validators from the current snapshot",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all registered validators",
				Action: app.ValidatorList,
			},
			{
				Name:  "info",
				Usage: "Display details about a validator",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Validator address",
						Required: true,
					},
				},
				Action: app.ValidatorInfo,
			},
			{
				Name:  "apy",
				Usage: "Display the yield estimate of a validator, optionally projecting rewards for an amount",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "address",
						Usage: "Validator address. Prompts for one when not given",
					},
					&cli.FloatFlag{
						Name:  "amount",
						Usage: "Amount to project delegator rewards for",
					},
				},
				Action: app.ValidatorAPY,
			},
		},
	}
}

func (app *StakeviewApp) ValidatorList(ctx context.Context, cmd *cli.Command) error {
	list, err := app.dash.Validators(ctx)
	if err != nil {
		return err
	}
	out := new(bytes.Buffer)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Validator\tStatus\tStaked\tCommission\tDelegators\tSlashed\t")
	for _, v := range list.Validators {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t\n", v.Address, v.Status, strconv.FormatFloat(v.StakingAmount, 'f', 4, 64),
			bpToPercent(v.CommissionBasisPoints), v.DelegatorCount, yesNoFlag(v.Slashed))
	}
	fmt.Fprintf(tw, "TOTAL %d (%d active)\t\t\t\t\t\t\n", list.Total, list.ActiveCount)
	tw.Flush()
	_, err = io.Copy(cmd.Root().Writer, out)
	if list.Degraded {
		app.logger.Warn("some validators could not be read, list is incomplete")
	}
	return err
}

func (app *StakeviewApp) ValidatorInfo(ctx context.Context, cmd *cli.Command) error {
	detail, err := app.dash.Validator(ctx, cmd.String("address"))
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	fmt.Fprintf(w, "Address: %s\n", detail.Address)
	fmt.Fprintf(w, "Status: %s\n", detail.Status)
	fmt.Fprintf(w, "Staked: %s (%s wei)\n", strconv.FormatFloat(detail.StakingAmount, 'f', -1, 64), detail.StakingAmountWei)
	fmt.Fprintf(w, "Commission: %s\n", bpToPercent(detail.CommissionBasisPoints))
	fmt.Fprintf(w, "Last Reward (wei): %s\n", detail.RewardAmountWei)
	fmt.Fprintf(w, "Slashed (wei): %s\n", detail.SlashAmountWei)
	fmt.Fprintf(w, "Delegators: %d\n", len(detail.Stakers))
	for _, s := range detail.Stakers {
		fmt.Fprintf(w, "  %s\n", s)
	}
	return nil
}

func (app *StakeviewApp) ValidatorAPY(ctx context.Context, cmd *cli.Command) error {
	address := cmd.String("address")
	if address == "" {
		var err error
		address, err = app.chooseValidator(ctx)
		if err != nil {
			return err
		}
	}
	w := cmd.Root().Writer
	if cmd.IsSet("amount") {
		proj, err := app.dash.Project(ctx, address, cmd.Float("amount"))
		if err != nil {
			return err
		}
		printYieldReport(w, proj.Report)
		printProjections(w, proj)
		return nil
	}
	rep, err := app.dash.YieldReport(ctx, address)
	if err != nil {
		return err
	}
	printYieldReport(w, rep)
	return nil
}

// chooseValidator asks the user to pick one of the known validators.
func (app *StakeviewApp) chooseValidator(ctx context.Context) (string, error) {
	list, err := app.dash.Validators(ctx)
	if err != nil {
		return "", err
	}
	if len(list.Validators) == 0 {
		return "", staking.ErrValidatorNotFound
	}
	items := make([]string, 0, len(list.Validators))
	for _, v := range list.Validators {
		items = append(items, fmt.Sprintf("%s  %s  %s", v.Address, v.Status, strconv.FormatFloat(v.StakingAmount, 'f', 4, 64)))
	}
	idx, _, err := (&promptui.Select{
		Label: "Select validator",
		Items: items,
		Size:  min(len(items), 10),
	}).Run()
	if err != nil {
		return "", err
	}
	return list.Validators[idx].Address, nil
}

func printYieldReport(w io.Writer, rep yield.Report) {
	fmt.Fprintf(w, "Validator: %s (%s)\n", rep.ValidatorAddress, rep.Status)
	fmt.Fprintf(w, "Commission: %s", bpToPercent(rep.CommissionBasisPoints))
	if rep.CommissionSanitized {
		fmt.Fprint(w, " (upstream value out of range, default used)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "APR: %.2f%%  APY: %.2f%%  (%s)\n", rep.APRPercent, rep.APYPercent, rep.CalculationMethod)
	fmt.Fprintf(w, "Delegator APR: %.2f%%  APY: %.2f%%\n", rep.Delegator.APRPercent, rep.Delegator.APYPercent)
	fmt.Fprintf(w, "Validator APR: %.2f%%  APY: %.2f%%\n", rep.Validator.APRPercent, rep.Validator.APYPercent)
	fmt.Fprintf(w, "Daily Rewards: %s\n", strconv.FormatFloat(rep.DailyRewards, 'f', 6, 64))
	fmt.Fprintf(w, "Performance Score: %d\n", rep.PerformanceScore)
	fmt.Fprintf(w, "Risk: %s", rep.RiskLevel)
	if len(rep.RiskFactors) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(rep.RiskFactors, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Break Even: %s\n", rep.BreakEven.Label)
}

func printProjections(w io.Writer, proj dashboard.YieldProjection) {
	out := new(bytes.Buffer)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Days\tSimple\tCompound\t\n")
	for _, p := range proj.Projections {
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t\n", p.Days, p.Simple, p.Compound)
	}
	tw.Flush()
	fmt.Fprintf(w, "Projected rewards for %s:\n", strconv.FormatFloat(proj.Amount, 'f', -1, 64))
	_, _ = io.Copy(w, out)
}

func bpToPercent(bp uint32) string {
	return strconv.FormatFloat(float64(bp)/100, 'f', 2, 64) + "%"
}

func yesNoFlag(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

