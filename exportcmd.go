package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/TxnLab/stakeview/internal/lib/dashboard"
	"github.com/TxnLab/stakeview/internal/lib/misc"
	"github.com/TxnLab/stakeview/internal/lib/ranking"
	"github.com/TxnLab/stakeview/internal/lib/yield"
)

// Report is the document written by the export command.
type Report struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Version     string                  `json:"version"`
	Validators  dashboard.ValidatorList `json:"validators"`
	Yields      []yield.Report          `json:"yields"`
	Network     dashboard.NetworkReport `json:"network"`
	TopRanking  ranking.Page            `json:"topRanking"`
	Degraded    bool                    `json:"degraded"`
}

func (app *StakeviewApp) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write a JSON report of validators, yields, network statistics and the top of the delegator ranking",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "File to write",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			report, err := app.buildReport(ctx)
			if err != nil {
				return err
			}
			return saveReport(app, cmd.String("out"), report)
		},
	}
}

func (app *StakeviewApp) buildReport(ctx context.Context) (*Report, error) {
	list, err := app.dash.Validators(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Version:     misc.GetVersionInfo(),
		Validators:  list,
		Yields:      make([]yield.Report, 0, len(list.Validators)),
		Degraded:    list.Degraded,
	}
	for _, v := range list.Validators {
		rep, err := app.dash.YieldReport(ctx, v.Address)
		if err != nil {
			return nil, fmt.Errorf("yield of %s: %w", v.Address, err)
		}
		report.Yields = append(report.Yields, rep)
	}
	if report.Network, err = app.dash.NetworkStats(ctx); err != nil {
		return nil, err
	}
	if report.TopRanking, err = app.dash.Ranking(ctx, 1, ranking.DefaultLimit); err != nil {
		return nil, err
	}
	report.Degraded = report.Degraded || report.Network.Degraded || report.TopRanking.Degraded
	return report, nil
}

// saveReport writes the report into a temp file next to name and only replaces name once the
// temp file was completely written.
func saveReport(app *StakeviewApp, name string, report *Report) error {
	if name == "" {
		return errors.New("no output file given")
	}
	temp, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(temp)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(report)
	if err != nil {
		_ = temp.Close()
		_ = os.Remove(temp.Name())
		return fmt.Errorf("error saving report: %w", err)
	}

	err = temp.Close()
	if err != nil {
		_ = os.Remove(temp.Name())
		return err
	}

	err = os.Rename(temp.Name(), name)
	if err != nil {
		_ = os.Remove(temp.Name())
		return err
	}
	app.logger.Info("report saved", "file", name, "degraded", report.Degraded)
	return nil
}
