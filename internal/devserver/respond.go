package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Warn("write json failed")
	}
}

// fail emits the backend's error shape: a body with a detail field.
func fail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func unauthorized(w http.ResponseWriter) {
	fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
}
