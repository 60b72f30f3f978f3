package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/prizes"
	"github.com/cueclub/tournament-engine/services"
)

type PrizeHandler struct {
	prizeService services.PrizeService
}

func NewPrizeHandler(prizeService services.PrizeService) *PrizeHandler {
	return &PrizeHandler{prizeService: prizeService}
}

type placementRequest struct {
	Position int              `json:"position"`
	Title    string           `json:"title"`
	Amount   int64            `json:"amount"`
	Type     models.PrizeType `json:"type"`
}

func (h *PrizeHandler) AddPlacement(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req placementRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	item, err := h.prizeService.AddPlacement(r.Context(), requesterID, requesterRole, tournamentID, req.Position, req.Title, req.Amount, req.Type)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"placement": item})
}

func (h *PrizeHandler) RemovePlacement(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	if err := h.prizeService.RemovePlacement(r.Context(), requesterID, requesterRole, tournamentID, chi.URLParam(r, "placementID")); err != nil {
		h.mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sponsorRequest struct {
	Name   string             `json:"name"`
	Amount int64              `json:"amount"`
	Type   models.SponsorType `json:"type"`
}

func (h *PrizeHandler) AddSponsor(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req sponsorRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	sponsor, err := h.prizeService.AddSponsor(r.Context(), requesterID, requesterRole, tournamentID, req.Name, req.Amount, req.Type)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"sponsor": sponsor})
}

func (h *PrizeHandler) RemoveSponsor(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	if err := h.prizeService.RemoveSponsor(r.Context(), requesterID, requesterRole, tournamentID, chi.URLParam(r, "sponsorID")); err != nil {
		h.mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rewardRequest struct {
	Title    string `json:"title"`
	Criteria string `json:"criteria"`
	Value    int64  `json:"value"`
}

func (h *PrizeHandler) AddReward(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req rewardRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	reward, err := h.prizeService.AddReward(r.Context(), requesterID, requesterRole, tournamentID, req.Title, req.Criteria, req.Value)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"reward": reward})
}

func (h *PrizeHandler) RemoveReward(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	if err := h.prizeService.RemoveReward(r.Context(), requesterID, requesterRole, tournamentID, chi.URLParam(r, "rewardID")); err != nil {
		h.mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PrizeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	summary, err := h.prizeService.Summary(r.Context(), tournamentID)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"summary": summary})
}

type reconcileRequest struct {
	ActualRevenue *int64 `json:"actual_revenue"`
}

func (h *PrizeHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req reconcileRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	report, err := h.prizeService.Reconcile(r.Context(), tournamentID, req.ActualRevenue)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"reconciliation": report})
}

func (h *PrizeHandler) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrPrizeEntryNotFound):
		notFoundResponse(w)
	case errors.Is(err, prizes.ErrDuplicatePlacement):
		conflictResponse(w, err.Error())
	case errors.Is(err, prizes.ErrInvalidPrize):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrForbidden):
		forbiddenResponse(w)
	default:
		serverErrorResponse(w, err)
	}
}
