// Command server runs every Solace function in one process for local
// development and container deployments.
package main

import (
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"

	// Registered through init()
	_ "github.com/Esteb4ncd/solace-server/functions/intake"
	_ "github.com/Esteb4ncd/solace-server/functions/progress"
	_ "github.com/Esteb4ncd/solace-server/functions/recommender"
	_ "github.com/Esteb4ncd/solace-server/functions/session-exporter"
)

func main() {
	bootstrap.InitLogger()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Starting functions server", "port", port)
	if err := funcframework.Start(port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
