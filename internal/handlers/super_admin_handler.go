package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/milan1710/mern-ayurveda/internal/auth"
	"github.com/milan1710/mern-ayurveda/internal/config"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/services"
	"github.com/milan1710/mern-ayurveda/pkg/utils"
)

// SuperAdminHandler is the provisioning console: env-credentialed login,
// sub-admin management and manual wallet funding.
type SuperAdminHandler struct {
	Users      *services.UserService
	Wallet     *services.WalletService
	JWTManager *auth.JWTManager
	cfg        *config.Config
}

func NewSuperAdminHandler(users *services.UserService, wallet *services.WalletService, jwtManager *auth.JWTManager, cfg *config.Config) *SuperAdminHandler {
	return &SuperAdminHandler{
		Users:      users,
		Wallet:     wallet,
		JWTManager: jwtManager,
		cfg:        cfg,
	}
}

// Login checks the configured super-admin credentials and issues a console token
func (h *SuperAdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.cfg.SuperAdmin.Email == "" || h.cfg.SuperAdmin.Password == "" {
		utils.Error(w, http.StatusServiceUnavailable, "Super admin console not configured")
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.cfg.SuperAdmin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.SuperAdmin.Password)) == 1
	if !emailOK || !passOK {
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.JWTManager.GenerateSuperAdminToken(req.Email)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *SuperAdminHandler) ListSubAdmins(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Users.ListSubAdmins(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, subs)
}

func (h *SuperAdminHandler) CreateSubAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Users.CreateSubAdmin(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

type setActiveRequestBody struct {
	IsActive bool `json:"is_active"`
}

func (h *SuperAdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req setActiveRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Users.SetActive(r.Context(), id, req.IsActive); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

// AddFund credits a sub-admin's wallet directly, outside the payment gateway
func (h *SuperAdminHandler) AddFund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req models.AddFundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := h.Wallet.AddFund(r.Context(), id, req.Amount, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, txn)
}

// Transactions returns a sub-admin's wallet ledger for the console
func (h *SuperAdminHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txns, err := h.Wallet.TransactionsOf(r.Context(), id, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, txns)
}
