package tagger

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"yt-tagger/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// APIKeyHeader carries the caller's own Gemini API key.
const APIKeyHeader = "X-Gemini-Key"

// maxBodyBytes caps request bodies; transcripts of long videos run to a few hundred KB.
const maxBodyBytes = 4 << 20

// Handler exposes the tagger HTTP endpoints using go-chi.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler returns a Handler that uses the given Service and Logger.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers the /v1 API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", h.Resolve)
		r.Get("/videos/{video_id}/transcript", h.GetTranscript)
		r.Post("/tags", h.GenerateTags)
		r.Post("/extract", h.Extract)
	})
}

// Resolve handles POST /v1/resolve.
// Body: { "url": "https://youtu.be/abc123" }.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.svc.ResolveURL(req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{VideoID: string(id)})
}

// GetTranscript handles GET /v1/videos/{video_id}/transcript.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if videoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	tr, err := h.svc.Transcript(r.Context(), videoID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// GenerateTags handles POST /v1/tags.
// Body: { "transcript": "...", "max_tags": 10 }.
func (h *Handler) GenerateTags(w http.ResponseWriter, r *http.Request) {
	var req TagsRequest
	if !h.decode(w, r, &req) {
		return
	}

	out, err := h.svc.Tags(r.Context(), req.Transcript, r.Header.Get(APIKeyHeader), req.MaxTags)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: out})
}

// Extract handles POST /v1/extract.
// Body: { "url": "https://youtu.be/abc123", "max_tags": 10 }.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.APIKey = r.Header.Get(APIKeyHeader)

	res, err := h.svc.Extract(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.log.Info("extract served",
		slog.String("request_id", logger.RequestID(r.Context())),
		slog.String("video_id", res.VideoID),
		slog.Int("tags", len(res.Tags)))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.log.Debug("invalid request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	attrs := []any{
		slog.String("request_id", logger.RequestID(r.Context())),
		slog.String("stage", string(StageOf(err))),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", attrs...)
	} else {
		h.log.Info("request rejected", attrs...)
	}

	writeJSON(w, status, ErrorResponse{
		Error: Message(err, h.svc.LanguageName()),
		Stage: StageOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
