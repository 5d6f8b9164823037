package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	app := initApp()
	defer app.Close()

	err := app.cliCmd.Run(context.Background(), os.Args)
	if err != nil {
		slog.Error("Error", "msg", err)
		app.Close()
		os.Exit(1)
	}
}
