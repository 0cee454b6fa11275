package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type generateRequest struct {
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type uploadRequest struct {
	User      string `json:"user"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	AudioData string `json:"audioData"`
	MimeType  string `json:"mimeType"`
}

type deleteRequest struct {
	ID string `json:"id"`
}

type createResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	ID      string `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// GenerateAudio implements POST /generate-audio.
func (h *APIHandler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	item, err := h.service.CreateFromText(r.Context(), req.User, req.Title, req.Text, req.Voice)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to generate audio.")
		return
	}

	h.logger.Info(r.Context(), "audio generated", "id", item.ID, "key", item.FilePath)

	writeJSON(w, http.StatusOK, createResponse{
		Message: "Audio generated successfully.",
		URL:     item.URL,
		ID:      item.ID,
	})
}

// UploadAudio implements POST /upload-audio.
func (h *APIHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	item, err := h.service.CreateFromUpload(r.Context(), req.User, req.Title, req.Text, req.AudioData, req.MimeType)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to upload audio.")
		return
	}

	h.logger.Info(r.Context(), "audio uploaded", "id", item.ID, "key", item.FilePath)

	writeJSON(w, http.StatusOK, createResponse{
		Message: "Audio uploaded successfully.",
		URL:     item.URL,
		ID:      item.ID,
	})
}

// ListAudios implements GET /audios with an optional ?user= filter.
func (h *APIHandler) ListAudios(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch audios.")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// DownloadAudio implements GET /download-audio?id=.
func (h *APIHandler) DownloadAudio(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Audio ID is required."})
		return
	}

	rc, filename, err := h.service.Download(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to download audio.")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := io.Copy(w, rc); err != nil {
		// headers are already sent; all we can do is log
		h.logger.Error(r.Context(), "streaming download failed", "id", id, "error", err.Error())
	}
}

// DeleteAudio implements DELETE /delete-audio.
func (h *APIHandler) DeleteAudio(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}
	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Audio ID is required."})
		return
	}

	if err := h.service.Delete(r.Context(), req.ID); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete audio.")
		return
	}

	h.logger.Info(r.Context(), "audio deleted", "id", req.ID)

	writeJSON(w, http.StatusOK, messageResponse{Message: "Audio deleted successfully."})
}

// Root implements GET /, a plaintext liveness check.
func (h *APIHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Memorize API is running.")
}
