package main

import (
	"context"

	"github.com/shandysiswandi/estatenotify/internal/app"
)

// @title           Estate Notify API
// @version         1.0
// @description     Estate Notify delivers one-time codes, password resets and booking notifications for the marketplace.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
