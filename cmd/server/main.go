// Package main implements the magicshop command: the API server for the
// shopkeeper's inventory and storefront, plus database migration and
// catalog import tooling.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
