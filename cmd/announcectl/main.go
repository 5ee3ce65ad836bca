package main

import (
	"fmt"
	"os"
)

func main() {
	b := newBackend()
	defer b.Close() //nolint:errcheck

	if err := NewRootCmd(b).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
