// Command planetbowl-setup wires the planet and bowl physics into a scene file.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
