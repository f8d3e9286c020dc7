package main

import (
	"bandmate-api/core/logger"
	"bandmate-api/core/server"
)

// Bandmate API - band management backend: membership, rehearsal and event
// scheduling with date voting, absences, setlists and notifications.
func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
