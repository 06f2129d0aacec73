package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/authz"
)

// RequireCapability — единая точка авторизации: роль из токена превращается
// в набор прав один раз, хендлеры роль больше не сравнивают.
func RequireCapability(cap authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Sin rol en el contexto"})
			return
		}
		role, _ := v.(string)
		if !authz.Can(role, cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "mensaje": "Acceso denegado"})
			return
		}
		c.Next()
	}
}
