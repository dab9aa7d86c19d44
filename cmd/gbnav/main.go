// Command gbnav plans and simulates agent navigation on gameboard levels
// without a window.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdout).command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
