package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/memoriascard/backend/internal/application/notification"
)

// Notifications gives every request a collector for the user notifications
// services emit while handling it
func Notifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _ := notification.WithCollector(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// DrainNotifications returns and clears the notifications collected so far
func DrainNotifications(c *gin.Context) []notification.Notification {
	if c.Request == nil {
		return nil
	}
	collector, ok := notification.CollectorFrom(c.Request.Context())
	if !ok {
		return nil
	}
	return collector.Drain()
}
