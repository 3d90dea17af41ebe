package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"optionheat/internal/grid"
	"optionheat/internal/logging"
)

func newHeatmapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Render spot/volatility heatmaps",
		Long: `Compute call and put value grids over a spot/volatility plane.

Rows are volatility, columns are spot price; strike, rate and time are
fixed. Axis ranges default to the configured point parameters scaled by
the heatmap factors. With --pnl each cell is price minus the purchase
price for that side.

Repeated runs with identical parameters are served from the grid cache.`,
		Example: `  optionheat heatmap
  optionheat heatmap --spot-min 80 --spot-max 120 --resolution 15
  optionheat heatmap --pnl --call-cost 8 --put-cost 5
  optionheat heatmap --csv-dir ./export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			req := requestFromFlags(cmd, app)
			side, _ := cmd.Flags().GetString("side")
			csvDir, _ := cmd.Flags().GetString("csv-dir")

			start := time.Now()
			res, err := app.Evaluator.Grid(req)
			if err != nil {
				output.Error("Invalid heatmap parameters: %v", err)
				return err
			}
			logging.LogGridCompute(app.Logger, string(req.Mode), req.Resolution, time.Since(start))

			if csvDir != "" {
				if err := exportGrids(app, res, req.Mode, csvDir); err != nil {
					output.Error("CSV export failed: %v", err)
					return err
				}
				output.Success("Grids exported to %s", csvDir)
			}

			if output.IsJSON() {
				return output.JSON(res)
			}

			label := "Fair Value"
			if req.Mode == grid.ModePnL {
				label = "P&L"
			}
			if side == "call" || side == "both" {
				output.Bold("Call (%s)", label)
				renderGrid(app, output, res.Call, res.SpotAxis, res.VolAxis)
				output.Println()
			}
			if side == "put" || side == "both" {
				output.Bold("Put (%s)", label)
				renderGrid(app, output, res.Put, res.SpotAxis, res.VolAxis)
			}
			return nil
		},
	}

	m := app.Config.Market
	h := app.Config.Heatmap
	cmd.Flags().Float64("strike", m.Strike, "strike price (K)")
	cmd.Flags().Float64("rate", m.Rate, "risk-free rate (r)")
	cmd.Flags().Float64("time", m.TimeToExpiry, "time to expiry in years (T)")
	cmd.Flags().Float64("spot-min", 0, "min spot price (default: spot × spot_min_factor)")
	cmd.Flags().Float64("spot-max", 0, "max spot price (default: spot × spot_max_factor)")
	cmd.Flags().Float64("vol-min", 0, "min volatility (default: vol × vol_min_factor)")
	cmd.Flags().Float64("vol-max", 0, "max volatility (default: vol × vol_max_factor)")
	cmd.Flags().Int("resolution", h.Resolution, "grid points per axis")
	cmd.Flags().Bool("pnl", false, "show P&L instead of fair value")
	cmd.Flags().Float64("call-cost", m.CallPurchasePrice, "call purchase price for P&L")
	cmd.Flags().Float64("put-cost", m.PutPurchasePrice, "put purchase price for P&L")
	cmd.Flags().String("side", "both", "side to render: call, put, both")
	cmd.Flags().String("csv-dir", "", "directory to export grids as CSV")

	return cmd
}

// requestFromFlags builds the grid request, deriving unset axis bounds
// from the configured point parameters and range factors.
func requestFromFlags(cmd *cobra.Command, app *App) grid.Request {
	m := app.Config.Market
	h := app.Config.Heatmap

	strike, _ := cmd.Flags().GetFloat64("strike")
	rate, _ := cmd.Flags().GetFloat64("rate")
	tte, _ := cmd.Flags().GetFloat64("time")
	spotMin, _ := cmd.Flags().GetFloat64("spot-min")
	spotMax, _ := cmd.Flags().GetFloat64("spot-max")
	volMin, _ := cmd.Flags().GetFloat64("vol-min")
	volMax, _ := cmd.Flags().GetFloat64("vol-max")
	resolution, _ := cmd.Flags().GetInt("resolution")
	pnl, _ := cmd.Flags().GetBool("pnl")
	callCost, _ := cmd.Flags().GetFloat64("call-cost")
	putCost, _ := cmd.Flags().GetFloat64("put-cost")

	if spotMin == 0 {
		spotMin = m.Spot * h.SpotMinFactor
	}
	if spotMax == 0 {
		spotMax = m.Spot * h.SpotMaxFactor
	}
	if volMin == 0 {
		volMin = clamp(m.Volatility*h.VolMinFactor, 0.01, 1.0)
	}
	if volMax == 0 {
		volMax = clamp(m.Volatility*h.VolMaxFactor, 0.01, 1.0)
	}

	mode := grid.ModeFairValue
	if pnl {
		mode = grid.ModePnL
	}

	return grid.Request{
		Strike:       strike,
		Rate:         rate,
		TimeToExpiry: tte,
		SpotMin:      spotMin,
		SpotMax:      spotMax,
		VolMin:       volMin,
		VolMax:       volMax,
		Resolution:   resolution,
		Mode:         mode,
		CallPurchase: callCost,
		PutPurchase:  putCost,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// renderGrid prints one matrix as a table, vol labels down the left and
// spot labels across the top.
func renderGrid(app *App, output *Output, matrix [][]float64, spots, vols []float64) {
	ui := app.Config.UI

	headers := make([]string, 0, len(spots)+1)
	headers = append(headers, "σ \\ S")
	for _, s := range spots {
		headers = append(headers, FormatAxis(s, ui.SpotDecimals))
	}

	table := NewTable(output, headers...)
	for i, v := range vols {
		row := make([]string, 0, len(spots)+1)
		row = append(row, FormatAxis(v, ui.VolDecimals))
		for _, cell := range matrix[i] {
			row = append(row, fmt.Sprintf("%.2f", cell))
		}
		table.AddRow(row...)
	}
	table.Render()
}

// exportGrids writes one CSV file per side, named after the mode.
func exportGrids(app *App, res *grid.Result, mode grid.Mode, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	prefix := "fair_value"
	if mode == grid.ModePnL {
		prefix = "pnl"
	}

	if err := writeGridCSV(app, filepath.Join(dir, prefix+"_call.csv"), res.Call, res.SpotAxis, res.VolAxis); err != nil {
		return err
	}
	return writeGridCSV(app, filepath.Join(dir, prefix+"_put.csv"), res.Put, res.SpotAxis, res.VolAxis)
}

// writeGridCSV writes a matrix with vol labels in the first column and
// spot labels in the header row.
func writeGridCSV(app *App, path string, matrix [][]float64, spots, vols []float64) error {
	ui := app.Config.UI

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(spots)+1)
	header = append(header, "")
	for _, s := range spots {
		header = append(header, FormatAxis(s, ui.SpotDecimals))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, v := range vols {
		record := make([]string, 0, len(spots)+1)
		record = append(record, FormatAxis(v, ui.VolDecimals))
		for _, cell := range matrix[i] {
			record = append(record, fmt.Sprintf("%.6f", cell))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
