package main

import (
	"fmt"
	"os"
	_ "time/tzdata"
	"visit-route-service/internal/config"
)

func main() {
	config.LoadDotEnv()
	if err := newRootCmd(os.Stdout, os.Stderr, os.Stdin).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
