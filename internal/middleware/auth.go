package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/services"
)

// AuthMiddleware — bearer-проверка access-токена. Любая проблема с токеном,
// включая подсунутый refresh, даёт одинаковый 401.
func AuthMiddleware(tokens services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// пропускаем preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Token no proporcionado"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Token no proporcionado"})
			return
		}
		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Token no proporcionado"})
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Token inválido o expirado"})
			return
		}

		// прокидываем субъект в контекст
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}
