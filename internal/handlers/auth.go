package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/mail"
	"strings"

	"github.com/cloudvault/backend/internal/middleware"
	"github.com/cloudvault/backend/internal/models"
	"github.com/cloudvault/backend/pkg/logger"
	"github.com/cloudvault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Username) < 3 {
		return utils.Error(c, fiber.StatusBadRequest, "username must be at least 3 characters")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid email")
	}
	if len(req.Password) < 6 {
		return utils.Error(c, fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	var existing models.User
	err := h.DB.First(&existing, "username = ? OR email = ?", req.Username, req.Email).Error
	if err == nil {
		return utils.Error(c, fiber.StatusConflict, "username or email already taken")
	}
	if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking existing user")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating user")
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
	})

	token, err := utils.GenerateToken(&user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}
	h.recordSession(&user, token)

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"token": token, "user": user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login accepts either the username or the email in the username field.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "username and password are required")
	}

	var user models.User
	if err := h.DB.First(&user, "username = ? OR email = ?", identifier, strings.ToLower(identifier)).Error; err != nil {
		logger.Warn("login_failed_user_not_found", map[string]interface{}{
			"identifier": identifier,
			"ip":         c.IP(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.WarnWithUser(user.ID.String(), "login_failed_invalid_password", map[string]interface{}{
			"ip": c.IP(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}
	h.recordSession(&user, token)

	logger.InfoWithUser(user.ID.String(), "user_login", map[string]interface{}{
		"ip": c.IP(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"token": token, "user": user})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return utils.Success(c, fiber.StatusOK, currentUser)
}

// recordSession keeps a hash of every issued token for future revocation.
// Token validation stays stateless, so a failed insert only gets logged.
func (h *AuthHandler) recordSession(user *models.User, token string) {
	sum := sha256.Sum256([]byte(token))
	session := models.Session{
		OwnerID:   user.ID,
		TokenHash: hex.EncodeToString(sum[:]),
		ExpiresAt: utils.TokenExpiry(),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		logger.ErrorWithUser(user.ID.String(), "session_record_failed", err, nil)
	}
}
