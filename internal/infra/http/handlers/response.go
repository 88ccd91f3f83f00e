package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/usecase"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUsecaseError traduz a taxonomia de erros para status HTTP. Mensagens
// internas (banco, provedores) nunca vão para o cliente.
func writeUsecaseError(w http.ResponseWriter, log *zap.Logger, err error) {
	var (
		verr    *usecase.ValidationError
		authErr *usecase.AuthError
		nfErr   *usecase.NotFoundError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "code": verr.Code})
	case errors.As(err, &authErr):
		writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
	case errors.As(err, &nfErr):
		writeErrorResponse(w, http.StatusNotFound, nfErr.Error())
	case usecase.IsUpstreamError(err):
		log.Error("upstream error", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "External service unavailable")
	default:
		log.Error("internal error", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}
