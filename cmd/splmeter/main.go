// Command splmeter measures calibrated A-weighted sound levels.
package main

import "github.com/cwbudde/algo-slm/internal/cli"

func main() {
	cli.Execute()
}
