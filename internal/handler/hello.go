package handler

import "net/http"

// HandleHello answers the root path. Handy as a liveness check — if this
// returns, the process is up (it says nothing about the database).
//
// HTTP: GET /
func HandleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello"})
}
