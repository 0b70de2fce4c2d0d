package handler

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookforge-api/internal/config"
	"bookforge-api/internal/interfaces/http/dto"
	"bookforge-api/internal/interfaces/http/middleware"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/utils"
)

// AuthHandler 登录（无密码存储，按邮箱签发 Token）
type AuthHandler struct {
	jwtManager *utils.JWTManager
	cfg        config.JWTConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		jwtManager: utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		cfg:        cfg,
	}
}

// Login 登录
// @Summary 登录
// @Description 按邮箱签发双 Token，配置中的管理员邮箱获得 admin 角色
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.cfg.Enabled {
		respondError(c, apperrors.ErrServiceUnavailable.WithDetail("authentication is disabled"))
		return
	}

	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := middleware.RoleAuthor
	if slices.ContainsFunc(h.cfg.AdminEmails, func(a string) bool { return strings.EqualFold(a, email) }) {
		role = middleware.RoleAdmin
	}
	// 同一邮箱始终得到同一用户 ID，对应同一存储命名空间
	userID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()

	accessTTL := h.cfg.Expiration
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := h.cfg.RefreshExpiration
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	tokens, err := h.jwtManager.GenerateTokenPair(userID, email, role, accessTTL, refreshTTL)
	if err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to generate tokens"))
		return
	}

	logger.Info(ctx, "user logged in", "user_id", userID, "role", role)
	dto.Success(c, &dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		User:         &dto.AuthUserDTO{ID: userID, Email: email, Role: role},
	})
}
