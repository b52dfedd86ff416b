package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

// errBadRequest marks malformed requests caught by the handlers themselves.
var errBadRequest = errors.New("bad request")

var validationErrors = []error{
	errBadRequest,
	domain.ErrInvalidCapacity,
	domain.ErrInvalidSalesWindow,
	domain.ErrUnknownTargetCurve,
	domain.ErrInvalidMilestone,
	domain.ErrInvalidTicketOrder,
	domain.ErrInvalidSponsorDeal,
	domain.ErrInvalidConference,
	domain.ErrInvalidProposal,
	domain.ErrUnknownProposalAction,
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
