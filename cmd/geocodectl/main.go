// Command geocodectl parses and resolves addresses from the command line.
//
// Usage:
//
//	geocodectl parse "Via Roma 10, 20121 Milano, MI"
//	geocodectl options "Via Roma 10, Milano"
//	geocodectl resolve --country it "Via Roma 10, Torino"
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
