// Package main is the entry point for the Pactum auth server.
package main

import (
	"os"

	"github.com/pactum-io/pactum/internal/authd"
)

func main() {
	if err := authd.NewAppCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
