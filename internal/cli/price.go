package cli

import (
	"github.com/spf13/cobra"

	"optionheat/internal/logging"
	"optionheat/internal/pricing"
)

// priceView is the JSON shape for a single-point evaluation.
type priceView struct {
	Params pricing.Params `json:"params"`
	Call   sideView       `json:"call"`
	Put    sideView       `json:"put"`
}

type sideView struct {
	Price   float64 `json:"price"`
	NetGain float64 `json:"net_gain"`
	Delta   float64 `json:"delta"`
	Gamma   float64 `json:"gamma"`
	Theta   float64 `json:"theta"`
	Vega    float64 `json:"vega"`
	Rho     float64 `json:"rho"`
}

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European option",
		Long: `Price a European call and put under the Black-Scholes model.

Reports theoretical value, net gain against the purchase prices, and
optionally the Greeks. Vega is per unit of volatility, theta per year,
and rho per percentage point of the risk-free rate.`,
		Example: `  optionheat price
  optionheat price --spot 105 --strike 100 --vol 0.25
  optionheat price --greeks --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			params, callCost, putCost := paramsFromFlags(cmd, app)
			showGreeks, _ := cmd.Flags().GetBool("greeks")

			call, put, err := pricing.Evaluate(params)
			if err != nil {
				output.Error("Invalid parameters: %v", err)
				return err
			}

			logging.LogEvaluation(app.Logger, params.Spot, params.Strike, call.Price, put.Price)

			if output.IsJSON() {
				return output.JSON(priceView{
					Params: params,
					Call:   newSideView(call, callCost),
					Put:    newSideView(put, putCost),
				})
			}

			displayInputs(output, params)
			displayMetricCard(output, "CALL", call, callCost, showGreeks)
			displayMetricCard(output, "PUT", put, putCost, showGreeks)
			return nil
		},
	}

	addParamFlags(cmd, app)
	cmd.Flags().Bool("greeks", false, "show the Greeks")

	return cmd
}

// addParamFlags registers the market parameter flags, defaulted from config.
func addParamFlags(cmd *cobra.Command, app *App) {
	m := app.Config.Market
	cmd.Flags().Float64("spot", m.Spot, "current underlying price (S)")
	cmd.Flags().Float64("strike", m.Strike, "strike price (K)")
	cmd.Flags().Float64("rate", m.Rate, "risk-free rate (r, continuously compounded)")
	cmd.Flags().Float64("time", m.TimeToExpiry, "time to expiry in years (T)")
	cmd.Flags().Float64("vol", m.Volatility, "annualized volatility (sigma)")
	cmd.Flags().Float64("call-cost", m.CallPurchasePrice, "call purchase price for P&L")
	cmd.Flags().Float64("put-cost", m.PutPurchasePrice, "put purchase price for P&L")
}

func paramsFromFlags(cmd *cobra.Command, app *App) (pricing.Params, float64, float64) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	strike, _ := cmd.Flags().GetFloat64("strike")
	rate, _ := cmd.Flags().GetFloat64("rate")
	tte, _ := cmd.Flags().GetFloat64("time")
	vol, _ := cmd.Flags().GetFloat64("vol")
	callCost, _ := cmd.Flags().GetFloat64("call-cost")
	putCost, _ := cmd.Flags().GetFloat64("put-cost")

	return pricing.Params{
		Spot:         spot,
		Strike:       strike,
		Rate:         rate,
		TimeToExpiry: tte,
		Volatility:   vol,
	}, callCost, putCost
}

func newSideView(r pricing.Result, cost float64) sideView {
	return sideView{
		Price:   r.Price,
		NetGain: r.Price - cost,
		Delta:   r.Delta,
		Gamma:   r.Gamma,
		Theta:   r.Theta,
		Vega:    r.Vega,
		Rho:     r.Rho,
	}
}

func displayInputs(output *Output, p pricing.Params) {
	table := NewTable(output, "Spot (S)", "Strike (K)", "Time (T)", "Vol (σ)", "Rate (r)")
	table.AddRow(
		FormatPrice(p.Spot),
		FormatPrice(p.Strike),
		FormatAxis(p.TimeToExpiry, 3),
		FormatAxis(p.Volatility, 3),
		FormatAxis(p.Rate, 3),
	)
	table.Render()
	output.Println()
}

func displayMetricCard(output *Output, side string, r pricing.Result, cost float64, showGreeks bool) {
	content := []string{
		"Value:    " + FormatPrice(r.Price),
		"Net Gain: " + output.FormatPnL(r.Price-cost),
	}
	if showGreeks {
		content = append(content,
			"Delta:    "+FormatGreek(r.Delta),
			"Gamma:    "+FormatGreek(r.Gamma),
			"Theta:    "+FormatGreek(r.Theta),
			"Vega:     "+FormatGreek(r.Vega),
			"Rho:      "+FormatGreek(r.Rho),
		)
	}
	output.Box(side, content)
	output.Println()
}
