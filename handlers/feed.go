package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/security"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AppointmentFeed handles GET /ws/appointments. Browsers cannot set an
// Authorization header on a WebSocket handshake, so the token travels as a
// query parameter. Admins only.
func AppointmentFeed(c *gin.Context) {
	if feedHub == nil || !feedHub.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "appointment feed not available"})
		return
	}

	raw := c.Query("token")
	if raw == "" || !tokens.Validate(raw) {
		unauthorized(c, "Invalid or expired token")
		return
	}
	username, ok := tokens.Subject(raw)
	if !ok {
		unauthorized(c, "Invalid or expired token")
		return
	}
	principal, err := resolver.LoadByUsername(username)
	if err != nil {
		unauthorized(c, "Unknown token subject")
		return
	}
	if !principal.HasRole(models.RoleAdmin) {
		forbidden(c)
		return
	}

	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("feed upgrade failed: %v", err)
		return
	}
	feedHub.Register(conn, principal.Username)
}

// FeedStats handles GET /api/v1/feed/stats (admin)
func FeedStats(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}
	count := 0
	if feedHub != nil {
		count = feedHub.ClientCount()
	}
	c.JSON(http.StatusOK, gin.H{"connectedClients": count})
}
