package http

import (
	"github.com/gin-gonic/gin"

	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

const actorContextKey = "actor"

// actorMiddleware materializes the acting identity from request headers.
// Session issuance and verification live outside this service; the gateway
// in front of it is trusted to set these headers truthfully.
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := entity.Actor{
			ID:   c.GetHeader("X-Actor-Id"),
			Role: c.GetHeader("X-Actor-Role"),
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// currentActor returns the actor set by actorMiddleware.
func currentActor(c *gin.Context) entity.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(entity.Actor); ok {
			return actor
		}
	}
	return entity.Actor{}
}
