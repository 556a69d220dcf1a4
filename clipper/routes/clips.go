package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"clipper/clipper/config"
	"clipper/clipper/controllers"
	"clipper/clipper/middlewares"
	"clipper/clipper/sources/psql/dao"
	"clipper/clipper/sources/psql/models"
	"clipper/clipper/utils/logging"
	"clipper/clipper/utils/types"
	"clipper/clipper/utils/urlcheck"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxRequestBody caps the ingestion request body read.
const maxRequestBody = 1 << 20

type ingestResponse struct {
	*models.Clip
	Meta types.IngestMeta `json:"_meta"`
}

// ClipRoutes registers the ingestion endpoint and the clip read surface.
func ClipRoutes(ingestCtrl *controllers.IngestController, clipCtrl *controllers.ClipController, keys *dao.APIKeyDAO, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg, keys))

		// POST /api/clips — ingest a URL
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			req, err := decodeIngestRequest(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid JSON body", "")
				return
			}
			if req.URL == "" {
				writeError(w, http.StatusBadRequest, "Missing required field: url",
					`Send a JSON body like {"url": "https://example.com/post"}`)
				return
			}
			if err := urlcheck.Validate(req.URL); err != nil {
				writeError(w, http.StatusBadRequest, err.Error(), "")
				return
			}

			userID := r.Context().Value(middlewares.UserIDKey).(int)
			clip, meta, err := ingestCtrl.Ingest(r.Context(), userID, req)
			if err != nil {
				logging.ErrorLogger.Error("ingest failed", zap.String("url", req.URL), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{
					Error:   "Internal Server Error",
					Details: err.Error(),
				})
				return
			}
			writeJSON(w, http.StatusCreated, ingestResponse{Clip: clip, Meta: meta})
		})

		// GET /api/clips — list own clips
		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			clips, err := clipCtrl.ListClips(r.Context(), userID, limit)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return clips, http.StatusOK, nil
		}))

		// GET /api/clips/{clip_id}
		gr.Get("/{clip_id}", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			clip, err := clipCtrl.GetClip(r.Context(), userID, chi.URLParam(r, "clip_id"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error(), "")
				return
			}
			if clip == nil {
				writeError(w, http.StatusNotFound, "Clip not found", "")
				return
			}
			writeJSON(w, http.StatusOK, clip)
		})
	})

	return r
}

// decodeIngestRequest tolerates a body that arrives as a JSON-encoded
// string and unwraps it before use.
func decodeIngestRequest(r *http.Request) (types.IngestRequest, error) {
	var req types.IngestRequest
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return req, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return req, fmt.Errorf("empty body")
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return req, err
		}
		trimmed = []byte(inner)
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, err
	}
	return req, nil
}
