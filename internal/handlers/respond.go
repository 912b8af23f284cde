package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/milan1710/mern-ayurveda/internal/repositories"
	"github.com/milan1710/mern-ayurveda/internal/services"
	"github.com/milan1710/mern-ayurveda/pkg/utils"
)

var validate = validator.New()

// writeServiceError maps service and repository errors onto HTTP statuses.
// Insufficient balance gets a structured body so the UI can show the shortfall.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient *repositories.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		utils.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":    "insufficient wallet balance",
			"required": insufficient.Required,
			"current":  insufficient.Current,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrAccountSuspended):
		utils.Error(w, http.StatusForbidden, "Account suspended. Please contact administrator.")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
	case errors.Is(err, services.ErrInvalidAssignee):
		utils.Error(w, http.StatusBadRequest, "Invalid assignee")
	case errors.Is(err, services.ErrVerificationFailed):
		utils.Error(w, http.StatusBadRequest, "Payment verification failed")
	case errors.Is(err, services.ErrInvalidTOTP):
		utils.Error(w, http.StatusUnauthorized, "Invalid authenticator code")
	case errors.Is(err, services.ErrNoTOTPSecret), errors.Is(err, services.ErrTOTPNotEnabled):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, repositories.ErrAlreadyProcessed):
		utils.Error(w, http.StatusConflict, "Transaction already processed")
	case errors.Is(err, repositories.ErrDuplicateEmail):
		utils.Error(w, http.StatusConflict, "Email already in use")
	case errors.Is(err, repositories.ErrConflict):
		utils.Error(w, http.StatusConflict, "Conflicting update, please retry")
	default:
		// Store and infrastructure failures stay server-side
		log.Printf("[HTTP] Internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
