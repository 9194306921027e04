package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optifleet/fleetcore/app"
	"github.com/optifleet/fleetcore/config"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/routing"
	"github.com/optifleet/fleetcore/pkg/export"
)

var (
	optimizeReq    routing.OptimizeRequest
	optimizeFormat string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run a one-shot route optimization and print the result",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeReq.VehicleID, "vehicle", "", "vehicle identifier")
	optimizeCmd.Flags().StringVar(&optimizeReq.StartLocation, "from", "origin", "start location label")
	optimizeCmd.Flags().StringVar(&optimizeReq.EndLocation, "to", "destination", "end location label")
	optimizeCmd.Flags().Float64Var(&optimizeReq.StartLat, "from-lat", 0, "start latitude")
	optimizeCmd.Flags().Float64Var(&optimizeReq.StartLon, "from-lon", 0, "start longitude")
	optimizeCmd.Flags().Float64Var(&optimizeReq.EndLat, "to-lat", 0, "end latitude")
	optimizeCmd.Flags().Float64Var(&optimizeReq.EndLon, "to-lon", 0, "end longitude")
	optimizeCmd.Flags().BoolVar(&optimizeReq.IncludeTrafficData, "traffic", false, "refine with predicted traffic")
	optimizeCmd.Flags().StringVar(&optimizeFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	res, err := svc.Orchestrator.Optimize(optimizeReq)
	if err != nil {
		return err
	}
	if optimizeFormat == "csv" {
		routes := append([]model.Route{res.PrimaryRoute}, res.AlternativeRoutes...)
		return export.WriteCSV(cmd.OutOrStdout(), routes)
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
