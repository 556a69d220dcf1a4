package routes

import (
	"encoding/json"
	"net/http"

	"clipper/clipper/config"
	"clipper/clipper/controllers"
	"clipper/clipper/middlewares"
	"clipper/clipper/sources/psql/dao"
	"clipper/clipper/utils/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController, keys *dao.APIKeyDAO, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	// POST /auth/login
	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		token, err := ctrl.Login(r.Context(), req.Username)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]string{"token": token}, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg, keys))

		// POST /auth/apikeys — mint an API key for the caller
		gr.Post("/apikeys", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.CreateAPIKeyRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			raw, key, err := ctrl.IssueAPIKey(r.Context(), userID, req.Label)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]any{"key": raw, "id": key.ID, "label": key.Label}, http.StatusCreated, nil
		}))
	})

	return r
}
