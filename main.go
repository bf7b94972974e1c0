// Command tomasulo-sim is a placeholder entry point.
//
// For the full CLI, use: go run ./cmd/tomasim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("tomasulo-sim - cycle-accurate Tomasulo out-of-order simulator")
	fmt.Println("")
	fmt.Println("Usage: tomasim [flags] <program.asm>")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/tomasim' instead.")
	}
}
