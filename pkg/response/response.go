package response

import "github.com/gin-gonic/gin"

// Success writes the success envelope of the client contract:
// {"success": true, "message": ...} plus any extra top-level fields
// (e.g. the user projection on login).
func Success(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes {"message": ...}. Internal error detail is logged by the
// caller and never reaches the response body.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
