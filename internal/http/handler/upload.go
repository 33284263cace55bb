package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"keepsake/internal/upload"
)

type UploadHandler struct {
	Store upload.Store // nil when no media provider is configured
}

// Upload accepts a multipart file, enforces the acceptance policy before
// any network call, and passes the bytes through to the media host.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "Upload failed: no media provider configured", http.StatusServiceUnavailable)
		return
	}

	// one extra MB of headroom for the multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		// a body over the reader cap surfaces here, not at the size check
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Upload failed: file too large: the request exceeds the 50 MB limit", http.StatusBadRequest)
			return
		}
		http.Error(w, "Upload failed: missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if err := upload.Validate(header.Size, mimeType); err != nil {
		http.Error(w, "Upload failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Upload failed: could not read file", http.StatusBadRequest)
		return
	}

	folder := strings.TrimSpace(r.FormValue("folder"))
	if folder == "" {
		folder = "memories"
	}

	res, err := h.Store.Upload(r.Context(), data, header.Filename, folder)
	if err != nil {
		http.Error(w, "Upload failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

type deleteFileReq struct {
	PublicID string `json:"publicId"`
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "Delete failed: no media provider configured", http.StatusServiceUnavailable)
		return
	}

	var req deleteFileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.PublicID) == "" {
		http.Error(w, "Delete failed: missing publicId", http.StatusBadRequest)
		return
	}

	if err := h.Store.Delete(r.Context(), req.PublicID); err != nil {
		http.Error(w, "Delete failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}
