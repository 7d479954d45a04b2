package jwt

import (
	"strings"

	"OpsLink/pkg/back"
	"OpsLink/pkg/util/myjwt"
	"OpsLink/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// Auth JWT鉴权中间件
//
// 校验通过后把身份信息写进gin上下文，下游Handler直接取
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			back.Error(c, xerr.Unauthorized, "未携带Token")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := myjwt.ParseToken(token)
		if err != nil || claims == nil {
			back.Error(c, xerr.Unauthorized, "Token无效或已过期")
			c.Abort()
			return
		}

		c.Set("uuid", claims.Uuid)
		c.Set("username", claims.Username)
		c.Set("company_id", claims.CompanyId)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}
