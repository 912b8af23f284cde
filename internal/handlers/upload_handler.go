package handlers

import (
	"net/http"

	"github.com/milan1710/mern-ayurveda/internal/storage"
	"github.com/milan1710/mern-ayurveda/pkg/utils"
)

const maxUploadSize = 10 << 20 // 10 MB

type UploadHandler struct {
	Store *storage.Store
}

func NewUploadHandler(store *storage.Store) *UploadHandler {
	return &UploadHandler{Store: store}
}

// Upload accepts a multipart image and returns its public URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		utils.Error(w, http.StatusServiceUnavailable, "File storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
	default:
		utils.Error(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	url, err := h.Store.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
