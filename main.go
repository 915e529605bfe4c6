package main

import (
	"os"

	"github.com/Zsh123456-BOOP/jnu-web/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
