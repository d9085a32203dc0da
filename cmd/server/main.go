// Development entrypoint: serves the frontend from disk instead of the
// embedded copy, so UI edits show up without rebuilding.
package main

import (
	"log"

	"competitive-analysis/internal/bootstrap"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("bootstrap app: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}
