package main

import (
	"log"

	_ "github.com/dhima/event-trigger-service/docs" // Import generated docs
	"github.com/dhima/event-trigger-service/internal/api"
)

// @title Event Trigger Service API
// @version 1.0
// @description Register webhook events, fire them on demand and inspect the recorded outcomes.
// @description
// @description ## Features
// @description - **Events**: INTERVAL, FIXED_TIME and ONE_TIME definitions with a next-run preview
// @description - **Triggers**: manual firing with every outcome stored as an immutable log
// @description - **Logs**: per-owner and per-event log queries
// @description
// @description Events are fired only on request. There is no background dispatcher.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	srv := api.NewServer()
	if err := srv.Serve(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
