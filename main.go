package main

import (
	"os"

	"github.com/guit-county/guit-portal/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
