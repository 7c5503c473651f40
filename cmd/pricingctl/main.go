// Command pricingctl validates, imports and exports bulk price files and checks asset availability.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
