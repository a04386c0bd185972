package middlewares

import (
	"net/http"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the opaque token header to the staff identity
// stored at login and stuffs it into the request context. Requests without a
// token pass through; protected routes use RequireAuth on top.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}

		var session models.SessionInfo
		exists, err := config.GetRedisObject("Token:"+token, &session)
		if err != nil || !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetProfileIdInContext(ctx, session.ProfileId)
		ctx = utils.SetUsernameInContext(ctx, session.Username)
		ctx = utils.SetFullNameInContext(ctx, session.FullName)
		ctx = utils.SetRoleInContext(ctx, string(session.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests that did not present a valid session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetProfileIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
