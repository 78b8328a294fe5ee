package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobportal/internal/accounts"
	"jobportal/internal/api/middleware"
	"jobportal/internal/auth"
	"jobportal/internal/errcode"
)

// AuthHandler 处理注册、登录与当前用户查询。
type AuthHandler struct {
	accounts  *accounts.Service
	guard     *LoginGuard
	onFailure func(reason string)
}

// NewAuthHandler 构造认证处理器。guard 与 onFailure 均可为 nil。
func NewAuthHandler(accountService *accounts.Service, guard *LoginGuard, onFailure func(reason string)) *AuthHandler {
	if onFailure == nil {
		onFailure = func(string) {}
	}
	return &AuthHandler{accounts: accountService, guard: guard, onFailure: onFailure}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	User  userResponse  `json:"user"`
	Token tokenResponse `json:"token"`
}

// Register 创建新用户账号并返回 Token。
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	user, token, err := h.accounts.Register(c.Request.Context(), accounts.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, registerResponse{User: newUserResponse(user), Token: newTokenResponse(token)})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验口令并返回 Token。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "username and password are required")
		return
	}

	ctx := c.Request.Context()
	if reason := h.guard.Check(ctx, c.ClientIP(), req.Username); reason != "" {
		middleware.LoggerFromContext(c).Info("login throttled",
			slog.String("username", req.Username),
			slog.String("reason", reason),
		)
		TooManyRequests(c, reason)
		return
	}

	token, err := h.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		if reason := errcode.Reason(err); reason != "" {
			h.guard.Failed(ctx, req.Username)
			h.onFailure(reason)
		}
		Fail(c, err)
		return
	}

	// 登录成功：清理失败计数
	h.guard.Succeeded(ctx, req.Username)
	c.JSON(http.StatusOK, newTokenResponse(token))
}

// Me 返回当前登录用户。
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func newTokenResponse(t auth.Token) tokenResponse {
	expiresIn := int(time.Until(t.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return tokenResponse{AccessToken: t.Value, TokenType: "Bearer", ExpiresIn: expiresIn}
}
