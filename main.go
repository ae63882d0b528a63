package main

import (
	"secret-santa-api/core/logger"
	"secret-santa-api/core/server"
)

// @title Secret Santa API
// @version 1.0
// @description Backend for Secret Santa events: rosters, incremental reveals and the assignment ledger

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
