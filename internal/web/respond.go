package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// requireOwner extracts the owner_id query parameter, writing a 400 when
// missing. Authentication is out of scope; the owner is caller-asserted.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		respondError(w, http.StatusBadRequest, "owner_id is required")
		return "", false
	}
	return ownerID, true
}

// decodeBody parses an optional JSON body into dst. An empty body is fine.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func errBadDate(field, value string) error {
	return fmt.Errorf("%s %q is not a valid date (expected %s)", field, value, dateFormat)
}

func errRange(start, end string) error {
	return fmt.Errorf("end_date %s precedes start_date %s", end, start)
}
