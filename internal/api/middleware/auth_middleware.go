package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"jobportal/internal/auth"
	"jobportal/internal/errcode"
)

const principalKey = "principal"

// PrincipalResolver turns an Authorization header into a Principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, header string) (auth.Principal, error)
}

// Authenticate 解析 Authorization 头并将 Principal 注入上下文。
// 未携带 Bearer 凭证的请求以匿名身份继续；凭证无效时直接返回 401。
// onFailure 可为 nil，用于统计失败原因。
func Authenticate(resolver PrincipalResolver, onFailure func(reason string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			logger := LoggerFromContext(c)
			if reason := errcode.Reason(err); reason != "" {
				logger.Info("authentication rejected", slog.String("reason", reason))
				if onFailure != nil {
					onFailure(reason)
				}
			} else {
				logger.Error("authentication dependency failed", slog.Any("error", err))
			}
			abortWithError(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequirePrincipal 拒绝匿名请求。
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !PrincipalFromContext(c).Authenticated() {
			abortWithError(c, errcode.ErrAuthRequired)
			return
		}
		c.Next()
	}
}

// PrincipalFromContext 返回当前请求的 Principal，未认证时为匿名。
func PrincipalFromContext(c *gin.Context) auth.Principal {
	if value, ok := c.Get(principalKey); ok {
		if p, ok := value.(auth.Principal); ok {
			return p
		}
	}
	return auth.Anonymous
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errcode.HTTPStatus(err), gin.H{
		"error":  errcode.PublicMessage(err),
		"code":   errcode.Code(err),
		"reason": errcode.Reason(err),
	})
}
