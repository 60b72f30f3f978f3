package handlers

import (
	"errors"
	"net/http"

	"github.com/cueclub/tournament-engine/middleware"
	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	playerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	participant, err := h.participantService.Register(r.Context(), tournamentID, playerID)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant})
}

func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var status *models.ParticipantStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.ParticipantStatus(raw)
		status = &s
	}

	participants, err := h.participantService.ListByTournament(r.Context(), tournamentID, status)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"participants": participants})
}

type participantStatusRequest struct {
	Status models.ParticipantStatus `json:"status"`
}

func (h *ParticipantHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	participantID, err := urlParamInt(r, "participantID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req participantStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	if err := h.participantService.ChangeStatus(r.Context(), requesterID, requesterRole, participantID, req.Status); err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": req.Status})
}

func (h *ParticipantHandler) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrPlayerNotFound):
		notFoundResponse(w)
	case errors.Is(err, services.ErrRegistrationClosed),
		errors.Is(err, services.ErrInvalidParticipantState):
		conflictResponse(w, err.Error())
	case errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrTournamentFull):
		conflictResponse(w, err.Error())
	case errors.Is(err, services.ErrPlayerNotEligible):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrForbidden):
		forbiddenResponse(w)
	default:
		serverErrorResponse(w, err)
	}
}
