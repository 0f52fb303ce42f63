package middleware

import (
	"waugzee/config"
	"waugzee/internal/events"
	"waugzee/internal/logger"
)

// Middleware holds the dependencies every HTTP-layer middleware needs.
// There is no repository field: the admin JWT surface carries its claims
// in the token itself and never looks a user up in the database.
type Middleware struct {
	Config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus, config config.Config) Middleware {
	return Middleware{
		Config:   config,
		log:      logger.New("middleware"),
		eventBus: eventBus,
	}
}
