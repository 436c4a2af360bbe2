package main

import (
	"fmt"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"warehouse/internal/app"
)

func main() {
	runtime, err := app.Build(app.Options{LoadDotEnv: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	defer runtime.Close()

	addr := ":" + runtime.Config.Port
	runtime.Logger.Info("server_start", map[string]any{"addr": addr, "env": runtime.Config.AppEnv})
	if err := http.ListenAndServe(addr, runtime.Handler); err != nil {
		runtime.Logger.Error("server_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
