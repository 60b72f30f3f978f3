package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cueclub/tournament-engine/brackets"
	"github.com/cueclub/tournament-engine/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

type generateBracketRequest struct {
	Seeding brackets.SeedingMethod `json:"seeding"`
	Force   bool                   `json:"force"`
}

func (h *BracketHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req generateBracketRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	if req.Seeding == "" {
		req.Seeding = brackets.SeedingByRating
	}
	if !brackets.ValidSeedingMethod(req.Seeding) {
		badRequestResponse(w, errors.New("seeding must be rating or registration"))
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	bracket, err := h.bracketService.Generate(r.Context(), requesterID, requesterRole, tournamentID, req.Seeding, req.Force)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket})
}

func (h *BracketHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	bracket, err := h.bracketService.Get(r.Context(), tournamentID)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket})
}

func (h *BracketHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	matchUID := chi.URLParam(r, "matchUID")
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	match, err := h.bracketService.StartMatch(r.Context(), requesterID, requesterRole, tournamentID, matchUID)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match})
}

type matchResultRequest struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
}

func (h *BracketHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	matchUID := chi.URLParam(r, "matchUID")
	var req matchResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	match, err := h.bracketService.RecordResult(r.Context(), requesterID, requesterRole, tournamentID, matchUID, req.Score1, req.Score2)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match})
}

type substitutionRequest struct {
	OldParticipantID int    `json:"old_participant_id"`
	NewPlayerID      int    `json:"new_player_id"`
	Reason           string `json:"reason"`
}

func (h *BracketHandler) Substitute(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req substitutionRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	if req.OldParticipantID < 1 || req.NewPlayerID < 1 {
		badRequestResponse(w, errors.New("old_participant_id and new_player_id are required"))
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	result, err := h.bracketService.Substitute(r.Context(), requesterID, requesterRole, tournamentID, req.OldParticipantID, req.NewPlayerID, req.Reason)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"substitution": result})
}

func (h *BracketHandler) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrBracketMissing),
		errors.Is(err, brackets.ErrMatchNotFound):
		notFoundResponse(w)
	case errors.Is(err, services.ErrBracketNotReady),
		errors.Is(err, services.ErrBracketExists),
		errors.Is(err, services.ErrBracketLocked),
		errors.Is(err, services.ErrTournamentNotLive),
		errors.Is(err, services.ErrSubstituteSelf),
		errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, brackets.ErrMatchCompleted):
		conflictResponse(w, err.Error())
	case errors.Is(err, services.ErrNotEnoughConfirmed),
		errors.Is(err, services.ErrPlayerNotEligible),
		errors.Is(err, brackets.ErrInvalidScore),
		errors.Is(err, brackets.ErrUnsupportedFormat):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrForbidden):
		forbiddenResponse(w)
	default:
		serverErrorResponse(w, err)
	}
}
