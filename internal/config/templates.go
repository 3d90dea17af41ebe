package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# optionheat Configuration

[market]
# Default market parameters, used when flags are not given.
spot = 100.0
strike = 100.0
# Continuously compounded annualized risk-free rate
rate = 0.05
# Years
time_to_expiry = 1.0
# Annualized (0.20 = 20%)
volatility = 0.20
# Purchase prices for P&L mode
call_purchase_price = 0.0
put_purchase_price = 0.0

[heatmap]
# Axis ranges default to the point parameters scaled by these factors
spot_min_factor = 0.80
spot_max_factor = 1.20
vol_min_factor = 0.50
vol_max_factor = 1.50
# Grid points per axis (endpoints included)
resolution = 25
# Safety bound on the grid cache
cache_max_entries = 256

[ui]
# Enable colored output
color_enabled = true
# Decimal places for axis labels
spot_decimals = 2
vol_decimals = 3

[logging]
# Level: debug, info, warn, error
level = "info"
# Echo logs to the terminal
console = false
# Write rotated log files under the config directory
file = true
`

// createTemplateConfig writes a commented default config file on first run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
