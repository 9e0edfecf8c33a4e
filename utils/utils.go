package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/nijaru/yt-transcript/errors"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// RespondWithError writes the public part of err. Details stay in the logs.
func RespondWithError(w http.ResponseWriter, err error) {
	code := apperrors.StatusCode(err)
	kind := apperrors.KindOf(err)

	resp := errorResponse{Error: "Internal server error", Kind: string(kind)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Message = appErr.Hint
	}

	writeJSON(w, code, resp)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	writeJSON(w, code, payload)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}
