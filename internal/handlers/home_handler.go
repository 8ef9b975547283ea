package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home serves the marketing payload unless the deployment hides it, in which
// case callers are pointed straight at sign-in.
func Home(homepageHidden bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if homepageHidden {
			c.JSON(http.StatusOK, gin.H{
				"login": "/v1/login",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"name":        "Referbook",
			"description": "Refer friends, earn discounts, book trusted local services.",
			"signup":      "/v1/register",
			"login":       "/v1/login",
		})
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
