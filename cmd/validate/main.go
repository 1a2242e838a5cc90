package main

// Validate a document from the command line:
//   go run ./cmd/validate run --file sop.pdf --regulation "21 CFR 820.75"

import (
	"os"

	"meddoc-backend/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
