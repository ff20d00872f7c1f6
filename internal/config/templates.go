package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stock Insights Configuration

[backend]
# Base URL of the service exposing POST /stock
url = "http://127.0.0.1:5000"
# Request timeout (e.g. "30s"); "0s" leaves it to the transport
timeout = "0s"
user_agent = "StockInsights/1.0"

[ui]
# Enable colored output
color_enabled = true
# Trend colors used by the price change and the chart
positive_color = "#48bb78"
negative_color = "#f56565"

[chart]
width = 72
height = 16
# Show every Nth date label on the x axis
label_every = 5

[logging]
# debug, info, warn, error
level = "info"
console = false
file = true
file_path = ""
max_size = 20
max_backups = 3
max_age = 14
`

// createTemplateConfig writes the commented template and returns its path.
func createTemplateConfig(configDir, name string) (string, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return "", fmt.Errorf("writing config template: %w", err)
	}

	return path, nil
}
