// askcorpus answers questions from your own PDFs and web pages: ingest
// documents into a local vector index, then ask grounded questions
// against them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
