package routes

import (
	"encoding/json"
	"net/http"

	"clipper/clipper/utils/types"
)

// handleJSON adapts a (result, status, error) handler into an
// http.HandlerFunc with a JSON response.
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			writeError(w, status, err.Error(), "")
			return
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg, hint string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Hint: hint})
}
