package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sufield/confdesk/internal/domain"
)

// maxBodyBytes bounds request bodies; ticket exports are the largest.
const maxBodyBytes = 8 << 20

func (a *API) getTicketAnalysis(w http.ResponseWriter, r *http.Request) {
	now, err := parseNow(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	report, err := a.sales.Analyze(r.Context(), chi.URLParam(r, "conferenceID"), now)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Analysis)
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (a *API) importTicketOrders(w http.ResponseWriter, r *http.Request) {
	var orders []domain.TicketOrder
	if err := decodeBody(w, r, &orders); err != nil {
		a.writeError(w, r, err)
		return
	}
	n, err := a.sales.ImportOrders(r.Context(), chi.URLParam(r, "conferenceID"), orders)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}

func (a *API) sendSalesUpdate(w http.ResponseWriter, r *http.Request) {
	now, err := parseNow(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	report, err := a.sales.SendUpdate(r.Context(), chi.URLParam(r, "conferenceID"), now)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Analysis)
}

func (a *API) getSponsorPipeline(w http.ResponseWriter, r *http.Request) {
	report, err := a.sponsors.Summary(r.Context(), chi.URLParam(r, "conferenceID"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summary)
}

func (a *API) notifySponsorPipeline(w http.ResponseWriter, r *http.Request) {
	report, err := a.sponsors.Notify(r.Context(), chi.URLParam(r, "conferenceID"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summary)
}

func (a *API) upsertSponsorDeal(w http.ResponseWriter, r *http.Request) {
	var deal domain.SponsorDeal
	if err := decodeBody(w, r, &deal); err != nil {
		a.writeError(w, r, err)
		return
	}
	deal.ID = chi.URLParam(r, "dealID")
	deal.ConferenceID = chi.URLParam(r, "conferenceID")

	saved, err := a.sponsors.UpsertDeal(r.Context(), deal)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (a *API) getProposal(w http.ResponseWriter, r *http.Request) {
	view, err := a.proposals.Get(r.Context(), chi.URLParam(r, "proposalID"), a.roles.Actor(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type actionRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment"`
}

func (a *API) actOnProposal(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeBody(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	action, err := domain.ParseProposalAction(req.Action)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	res, err := a.proposals.Act(r.Context(), chi.URLParam(r, "proposalID"), action, req.Comment, a.roles.Actor(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseNow reads the optional ?now=RFC3339 override. Zero means "use the
// service clock".
func parseNow(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return time.Time{}, nil
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: now must be RFC3339: %v", errBadRequest, err)
	}
	return now, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
