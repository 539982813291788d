package main

import (
	"log"

	"github.com/edslab/courserag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
