package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/milan1710/mern-ayurveda/internal/auth"
	"github.com/milan1710/mern-ayurveda/internal/middleware"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/services"
	"github.com/milan1710/mern-ayurveda/pkg/utils"
)

type AuthHandler struct {
	Users      *services.UserService
	TOTP       *services.TOTPService
	JWTManager *auth.JWTManager
}

func NewAuthHandler(users *services.UserService, totpService *services.TOTPService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		Users:      users,
		TOTP:       totpService,
		JWTManager: jwtManager,
	}
}

// Login handles step 1 of authentication. Accounts with 2FA enabled get a
// temp token and finish via Verify2FA.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Users.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if result.Needs2FA {
		utils.JSON(w, http.StatusOK, models.TwoFAPendingResponse{
			Requires2FA: true,
			TempToken:   result.TempToken,
		})
		return
	}

	utils.JSON(w, http.StatusOK, result.Auth)
}

type verify2FARequest struct {
	TempToken string `json:"temp_token" validate:"required"`
	Code      string `json:"code" validate:"required,len=6"`
}

// Verify2FA exchanges a temp token plus authenticator code for a full session
func (h *AuthHandler) Verify2FA(w http.ResponseWriter, r *http.Request) {
	var req verify2FARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	claims, err := h.JWTManager.ValidateTempToken(req.TempToken)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	user, err := h.TOTP.Verify(r.Context(), claims.UserID, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}

// Me returns the current account, wallet balance and charge policy included
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// Logout acknowledges the logout. Sessions are stateless bearer tokens;
// the client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Setup2FA starts authenticator enrollment for the current account
func (h *AuthHandler) Setup2FA(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	setup, err := h.TOTP.GenerateSetup(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, setup)
}

type totpCodeRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// Enable2FA verifies the first authenticator code and turns 2FA on
func (h *AuthHandler) Enable2FA(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req totpCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.TOTP.VerifyAndEnable(r.Context(), user.ID, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": true})
}

// Disable2FA turns 2FA off after a final code check
func (h *AuthHandler) Disable2FA(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req totpCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.TOTP.Disable(r.Context(), user.ID, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": false})
}
