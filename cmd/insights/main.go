// Command insights looks up company stock data from the terminal.
package main

import "stock-insights/internal/cli"

func main() {
	cli.Main()
}
