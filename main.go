package main

import (
	"os"

	"github.com/AssocCMS/AssocCMS/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
