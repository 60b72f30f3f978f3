package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cueclub/tournament-engine/middleware"
	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
	"github.com/cueclub/tournament-engine/services"
	"github.com/cueclub/tournament-engine/validation"
)

const maxBannerSize = 5 << 20 // 5MB

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

// tournamentRequest is the wire form of a tournament configuration, shared by
// create, update and validate.
type tournamentRequest struct {
	Name            string            `json:"name"`
	Description     *string           `json:"description"`
	VenueAddress    string            `json:"venue_address"`
	Tier            int               `json:"tier"`
	Type            models.TournamentType `json:"type"`
	GameFormat      models.GameFormat `json:"game_format"`
	MaxParticipants int               `json:"max_participants"`
	EntryFee        int64             `json:"entry_fee"`
	PrizePool       int64             `json:"prize_pool"`

	AllowAllRanks bool              `json:"allow_all_ranks"`
	EligibleRanks []models.RankCode `json:"eligible_ranks"`
	MinRank       *models.RankCode  `json:"min_rank"`
	MaxRank       *models.RankCode  `json:"max_rank"`

	RegistrationStart time.Time `json:"registration_start"`
	RegistrationEnd   time.Time `json:"registration_end"`
	TournamentStart   time.Time `json:"tournament_start"`
	TournamentEnd     time.Time `json:"tournament_end"`
}

func (req *tournamentRequest) toModel() *models.Tournament {
	return &models.Tournament{
		Name:              req.Name,
		Description:       req.Description,
		VenueAddress:      req.VenueAddress,
		Tier:              req.Tier,
		Type:              req.Type,
		GameFormat:        req.GameFormat,
		MaxParticipants:   req.MaxParticipants,
		EntryFee:          req.EntryFee,
		PrizePool:         req.PrizePool,
		AllowAllRanks:     req.AllowAllRanks,
		EligibleRanks:     req.EligibleRanks,
		MinRank:           req.MinRank,
		MaxRank:           req.MaxRank,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		TournamentStart:   req.TournamentStart,
		TournamentEnd:     req.TournamentEnd,
	}
}

func (req *tournamentRequest) toConfig() validation.Config {
	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	return validation.Config{
		Name:              req.Name,
		Description:       description,
		VenueAddress:      req.VenueAddress,
		Tier:              req.Tier,
		Type:              req.Type,
		GameFormat:        req.GameFormat,
		MaxParticipants:   req.MaxParticipants,
		EntryFee:          req.EntryFee,
		PrizePool:         req.PrizePool,
		AllowAllRanks:     req.AllowAllRanks,
		EligibleRanks:     req.EligibleRanks,
		MinRank:           req.MinRank,
		MaxRank:           req.MaxRank,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		TournamentStart:   req.TournamentStart,
		TournamentEnd:     req.TournamentEnd,
	}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	tournament := req.toModel()
	tournament.OrganizerID = organizerID

	if err := h.tournamentService.Create(r.Context(), tournament); err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament})
}

// Validate runs the rule set without persisting. A ?field= query narrows the
// check to the rules touching that one field, for interactive forms.
func (h *TournamentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req tournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	excludeID := 0
	if raw := r.URL.Query().Get("exclude_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(w, errors.New("invalid exclude_id parameter"))
			return
		}
		excludeID = id
	}

	var result validation.Result
	var err error
	if field := r.URL.Query().Get("field"); field != "" {
		result, err = h.tournamentService.ValidateField(r.Context(), field, req.toConfig(), excludeID)
	} else {
		result, err = h.tournamentService.Validate(r.Context(), req.toConfig(), excludeID)
	}
	if err != nil {
		serverErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"valid":    result.Valid(),
		"errors":   result.Errors,
		"warnings": result.Warnings,
	})
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTournamentsFilter{Limit: 50}
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status := models.TournamentStatus(raw)
		filter.Status = &status
	}
	if raw := query.Get("type"); raw != "" {
		tournamentType := models.TournamentType(raw)
		if !models.ValidTournamentType(tournamentType) {
			badRequestResponse(w, errors.New("unknown tournament type"))
			return
		}
		filter.Type = &tournamentType
	}
	if raw := query.Get("game_format"); raw != "" {
		format := models.GameFormat(raw)
		if !models.ValidGameFormat(format) {
			badRequestResponse(w, errors.New("unknown game format"))
			return
		}
		filter.GameFormat = &format
	}
	if raw := query.Get("organizer_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(w, errors.New("invalid organizer_id parameter"))
			return
		}
		filter.OrganizerID = &id
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			badRequestResponse(w, errors.New("limit must be between 1 and 100"))
			return
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			badRequestResponse(w, errors.New("invalid offset parameter"))
			return
		}
		filter.Offset = offset
	}

	tournaments, err := h.tournamentService.List(r.Context(), filter)
	if err != nil {
		serverErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments})
}

func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	expand := r.URL.Query().Get("expand") == "true"

	tournament, err := h.tournamentService.GetByID(r.Context(), id, expand)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament})
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req tournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	tournament := req.toModel()
	tournament.ID = id

	if err := h.tournamentService.UpdateDetails(r.Context(), requesterID, requesterRole, tournament); err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament})
}

type statusRequest struct {
	Status models.TournamentStatus `json:"status"`
}

func (h *TournamentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req statusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	if err := h.tournamentService.UpdateStatus(r.Context(), requesterID, requesterRole, id, req.Status); err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": req.Status})
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	if err := h.tournamentService.Delete(r.Context(), requesterID, requesterRole, id); err != nil {
		h.mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	requesterID, requesterRole, err := requester(r)
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxBannerSize); err != nil {
		badRequestResponse(w, errors.New("banner must be a multipart upload of at most 5MB"))
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		badRequestResponse(w, errors.New("banner file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		badRequestResponse(w, errors.New("banner must be a JPEG, PNG or WebP image"))
		return
	}

	url, err := h.tournamentService.UploadBanner(r.Context(), requesterID, requesterRole, id, file, header.Size, contentType)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"banner_url": url})
}

func requester(r *http.Request) (int, models.PlayerRole, error) {
	id, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return 0, "", err
	}
	role, err := middleware.GetRoleFromContext(r.Context())
	if err != nil {
		return 0, "", err
	}
	return id, role, nil
}

func (h *TournamentHandler) mapError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		failedValidationResponse(w, verr)
	case errors.Is(err, services.ErrTournamentNotFound):
		notFoundResponse(w)
	case errors.Is(err, services.ErrTournamentNameConflict):
		conflictResponse(w, err.Error())
	case errors.Is(err, services.ErrInvalidStatusChange),
		errors.Is(err, services.ErrTournamentNotEditable),
		errors.Is(err, services.ErrTournamentImmutable):
		conflictResponse(w, err.Error())
	case errors.Is(err, services.ErrForbidden):
		forbiddenResponse(w)
	default:
		serverErrorResponse(w, err)
	}
}
