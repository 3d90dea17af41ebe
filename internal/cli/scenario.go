package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	apperrors "optionheat/internal/errors"
	"optionheat/internal/logging"
	"optionheat/internal/models"
	"optionheat/internal/pricing"
)

func newScenarioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage saved pricing scenarios",
		Long: `Save, list and re-price named parameter sets.

A scenario captures the full set of pricing inputs under a name so it
can be re-evaluated later. Each 'scenario price' run is also recorded
as evaluation history.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "scenario store unavailable")
			}
			return nil
		},
	}

	cmd.AddCommand(newScenarioSaveCmd(app))
	cmd.AddCommand(newScenarioListCmd(app))
	cmd.AddCommand(newScenarioShowCmd(app))
	cmd.AddCommand(newScenarioDeleteCmd(app))
	cmd.AddCommand(newScenarioPriceCmd(app))
	cmd.AddCommand(newScenarioHistoryCmd(app))

	return cmd
}

func newScenarioSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a scenario from the given parameters",
		Example: `  optionheat scenario save base-case
  optionheat scenario save stressed --vol 0.45 --rate 0.08`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			params, callCost, putCost := paramsFromFlags(cmd, app)
			if err := params.Validate(); err != nil {
				output.Error("Invalid parameters: %v", err)
				return err
			}

			scenario := &models.Scenario{
				Name:              args[0],
				Spot:              params.Spot,
				Strike:            params.Strike,
				Rate:              params.Rate,
				TimeToExpiry:      params.TimeToExpiry,
				Volatility:        params.Volatility,
				CallPurchasePrice: callCost,
				PutPurchasePrice:  putCost,
			}

			if err := app.Store.SaveScenario(context.Background(), scenario); err != nil {
				output.Error("Failed to save scenario: %v", err)
				return err
			}
			logging.LogScenario(app.Logger, "save", scenario.Name)

			if output.IsJSON() {
				return output.JSON(scenario)
			}
			output.Success("Scenario '%s' saved", scenario.Name)
			return nil
		},
	}

	addParamFlags(cmd, app)
	return cmd
}

func newScenarioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			scenarios, err := app.Store.ListScenarios(context.Background())
			if err != nil {
				output.Error("Failed to list scenarios: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(scenarios)
			}

			if len(scenarios) == 0 {
				output.Info("No scenarios saved yet. Use 'optionheat scenario save <name>'.")
				return nil
			}

			table := NewTable(output, "Name", "Spot", "Strike", "Time", "Vol", "Rate", "Updated")
			for _, s := range scenarios {
				table.AddRow(
					s.Name,
					FormatPrice(s.Spot),
					FormatPrice(s.Strike),
					FormatAxis(s.TimeToExpiry, 3),
					FormatAxis(s.Volatility, 3),
					FormatAxis(s.Rate, 3),
					FormatDate(s.UpdatedAt),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newScenarioShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			scenario, err := app.Store.GetScenario(context.Background(), args[0])
			if err != nil {
				output.Error("Failed to load scenario: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(scenario)
			}

			output.Bold("Scenario: %s", scenario.Name)
			output.Printf("  Spot:            %s\n", FormatPrice(scenario.Spot))
			output.Printf("  Strike:          %s\n", FormatPrice(scenario.Strike))
			output.Printf("  Rate:            %.3f\n", scenario.Rate)
			output.Printf("  Time (years):    %.3f\n", scenario.TimeToExpiry)
			output.Printf("  Volatility:      %.3f\n", scenario.Volatility)
			output.Printf("  Call Purchase:   %s\n", FormatPrice(scenario.CallPurchasePrice))
			output.Printf("  Put Purchase:    %s\n", FormatPrice(scenario.PutPurchasePrice))
			output.Printf("  Updated:         %s\n", FormatDate(scenario.UpdatedAt))
			return nil
		},
	}
}

func newScenarioDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved scenario and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if err := app.Store.DeleteScenario(context.Background(), args[0]); err != nil {
				output.Error("Failed to delete scenario: %v", err)
				return err
			}
			logging.LogScenario(app.Logger, "delete", args[0])

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("Scenario '%s' deleted", args[0])
			return nil
		},
	}
}

func newScenarioPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <name>",
		Short: "Price a saved scenario and record the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			scenario, err := app.Store.GetScenario(context.Background(), args[0])
			if err != nil {
				output.Error("Failed to load scenario: %v", err)
				return err
			}

			params := pricing.Params{
				Spot:         scenario.Spot,
				Strike:       scenario.Strike,
				Rate:         scenario.Rate,
				TimeToExpiry: scenario.TimeToExpiry,
				Volatility:   scenario.Volatility,
			}

			call, put, err := pricing.Evaluate(params)
			if err != nil {
				output.Error("Invalid parameters: %v", err)
				return err
			}

			eval := &models.Evaluation{
				Scenario:  scenario.Name,
				Timestamp: time.Now(),
				CallPrice: call.Price,
				PutPrice:  put.Price,
				CallPnL:   call.Price - scenario.CallPurchasePrice,
				PutPnL:    put.Price - scenario.PutPurchasePrice,
			}
			if err := app.Store.LogEvaluation(context.Background(), eval); err != nil {
				app.Logger.Warn().Err(err).Msg("Failed to record evaluation history")
			}

			logging.LogEvaluation(app.Logger, params.Spot, params.Strike, call.Price, put.Price)
			showGreeks, _ := cmd.Flags().GetBool("greeks")

			if output.IsJSON() {
				return output.JSON(priceView{
					Params: params,
					Call:   newSideView(call, scenario.CallPurchasePrice),
					Put:    newSideView(put, scenario.PutPurchasePrice),
				})
			}

			output.Bold("Scenario: %s", scenario.Name)
			output.Println()
			displayInputs(output, params)
			displayMetricCard(output, "CALL", call, scenario.CallPurchasePrice, showGreeks)
			displayMetricCard(output, "PUT", put, scenario.PutPurchasePrice, showGreeks)
			return nil
		},
	}

	cmd.Flags().Bool("greeks", false, "show the Greeks")
	return cmd
}

func newScenarioHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "Show evaluation history for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			limit, _ := cmd.Flags().GetInt("limit")

			evals, err := app.Store.GetEvaluations(context.Background(), args[0], limit)
			if err != nil {
				output.Error("Failed to load history: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(evals)
			}

			if len(evals) == 0 {
				output.Info("No evaluations recorded for '%s'.", args[0])
				return nil
			}

			table := NewTable(output, "When", "Call", "Put", "Call P&L", "Put P&L")
			for _, e := range evals {
				table.AddRow(
					FormatDate(e.Timestamp),
					FormatPrice(e.CallPrice),
					FormatPrice(e.PutPrice),
					output.FormatPnL(e.CallPnL),
					output.FormatPnL(e.PutPnL),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of entries")
	return cmd
}
