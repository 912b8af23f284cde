package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/middleware"
	"github.com/milan1710/mern-ayurveda/internal/services"
	"github.com/milan1710/mern-ayurveda/internal/timeutil"
	"github.com/milan1710/mern-ayurveda/pkg/utils"
)

type StatsHandler struct {
	Service *services.StatsService
}

func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{Service: service}
}

// Summary serves the dashboard numbers. from/to are IST dates (YYYY-MM-DD);
// staff narrows to a single assignee within the actor's scope.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var from, to time.Time
	if s := r.URL.Query().Get("from"); s != "" {
		parsed, err := timeutil.ParseInIST(timeutil.DateLayout, s)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if s := r.URL.Query().Get("to"); s != "" {
		parsed, err := timeutil.ParseInIST(timeutil.DateLayout, s)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		to = parsed
	}

	var staffID *int
	if s := r.URL.Query().Get("staff"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid staff ID")
			return
		}
		staffID = &id
	}

	summary, err := h.Service.Summary(r.Context(), actor, from, to, staffID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}
