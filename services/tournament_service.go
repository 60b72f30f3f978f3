package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
	"github.com/cueclub/tournament-engine/storage"
	"github.com/cueclub/tournament-engine/validation"
)

// statusTransitions is the forward edge set of the lifecycle machine.
// Cancellation is handled separately: it is reachable from every
// non-terminal status.
var statusTransitions = map[models.TournamentStatus]models.TournamentStatus{
	models.StatusDraft:              models.StatusPublished,
	models.StatusPublished:          models.StatusRegistrationOpen,
	models.StatusRegistrationOpen:   models.StatusRegistrationClosed,
	models.StatusRegistrationClosed: models.StatusOngoing,
	models.StatusOngoing:            models.StatusCompleted,
}

// CanTransition reports whether a tournament may move from one status
// directly to another. Skipping stages is never allowed.
func CanTransition(from, to models.TournamentStatus) bool {
	if to == models.StatusCancelled {
		return !from.IsTerminal()
	}
	return statusTransitions[from] == to
}

type TournamentService interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int, expand bool) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	// Validate runs the full rule set against a candidate configuration
	// without persisting anything. excludeID skips the tournament itself
	// when re-validating an existing draft.
	Validate(ctx context.Context, cfg validation.Config, excludeID int) (validation.Result, error)
	ValidateField(ctx context.Context, field string, cfg validation.Config, excludeID int) (validation.Result, error)
	UpdateDetails(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, requesterID int, requesterRole models.PlayerRole, id int, status models.TournamentStatus) error
	Delete(ctx context.Context, requesterID int, requesterRole models.PlayerRole, id int) error
	UploadBanner(ctx context.Context, requesterID int, requesterRole models.PlayerRole, id int, file io.Reader, size int64, contentType string) (string, error)
	AutoUpdateStatusesByDates(ctx context.Context) error
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	prizeRepo       repositories.PrizeRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	prizeRepo repositories.PrizeRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		prizeRepo:       prizeRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func configFromTournament(t *models.Tournament) validation.Config {
	description := ""
	if t.Description != nil {
		description = *t.Description
	}
	return validation.Config{
		Name:              t.Name,
		Description:       description,
		VenueAddress:      t.VenueAddress,
		Tier:              t.Tier,
		Type:              t.Type,
		GameFormat:        t.GameFormat,
		MaxParticipants:   t.MaxParticipants,
		EntryFee:          t.EntryFee,
		PrizePool:         t.PrizePool,
		AllowAllRanks:     t.AllowAllRanks,
		EligibleRanks:     t.EligibleRanks,
		MinRank:           t.MinRank,
		MaxRank:           t.MaxRank,
		RegistrationStart: t.RegistrationStart,
		RegistrationEnd:   t.RegistrationEnd,
		TournamentStart:   t.TournamentStart,
		TournamentEnd:     t.TournamentEnd,
	}
}

func (s *tournamentService) existingSchedules(ctx context.Context, cfg validation.Config, excludeID int) ([]validation.Existing, error) {
	overlapping, err := s.tournamentRepo.ListOverlapping(ctx, cfg.TournamentStart, cfg.TournamentEnd, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load overlapping tournaments: %w", err)
	}
	existing := make([]validation.Existing, len(overlapping))
	for i, t := range overlapping {
		existing[i] = validation.Existing{
			Name:         t.Name,
			VenueAddress: t.VenueAddress,
			Start:        t.TournamentStart,
			End:          t.TournamentEnd,
		}
	}
	return existing, nil
}

func (s *tournamentService) Create(ctx context.Context, t *models.Tournament) error {
	cfg := configFromTournament(t)
	existing, err := s.existingSchedules(ctx, cfg, 0)
	if err != nil {
		return err
	}

	result := validation.Validate(cfg, existing, time.Now())
	if !result.Valid() {
		return &ValidationError{Fields: result.Errors, Warnings: result.Warnings}
	}

	t.Status = models.StatusDraft
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return ErrTournamentNameConflict
		}
		return err
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.Int("organizer_id", t.OrganizerID),
		slog.String("type", string(t.Type)),
	)
	return nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int, expand bool) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	s.resolveBannerURL(t)
	if !expand {
		return t, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		participants, err := s.participantRepo.ListByTournament(gctx, id, nil, true)
		if err != nil {
			return err
		}
		t.Participants = participants
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, id)
		if err != nil {
			return err
		}
		t.Matches = make([]models.Match, len(matches))
		for i, m := range matches {
			t.Matches[i] = *m
		}
		return nil
	})
	g.Go(func() error {
		placements, err := s.prizeRepo.ListPlacements(gctx, id)
		if err != nil {
			return err
		}
		t.Placements = placements
		return nil
	})
	g.Go(func() error {
		sponsors, err := s.prizeRepo.ListSponsors(gctx, id)
		if err != nil {
			return err
		}
		t.Sponsors = sponsors
		return nil
	})
	g.Go(func() error {
		rewards, err := s.prizeRepo.ListRewards(gctx, id)
		if err != nil {
			return err
		}
		t.Rewards = rewards
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %d relations: %w", id, err)
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		s.resolveBannerURL(&tournaments[i])
	}
	return tournaments, nil
}

func (s *tournamentService) Validate(ctx context.Context, cfg validation.Config, excludeID int) (validation.Result, error) {
	existing, err := s.existingSchedules(ctx, cfg, excludeID)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.Validate(cfg, existing, time.Now()), nil
}

func (s *tournamentService) ValidateField(ctx context.Context, field string, cfg validation.Config, excludeID int) (validation.Result, error) {
	existing, err := s.existingSchedules(ctx, cfg, excludeID)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.ValidateField(field, cfg, existing, time.Now()), nil
}

func (s *tournamentService) authorize(t *models.Tournament, requesterID int, requesterRole models.PlayerRole) error {
	if requesterRole == models.RoleAdmin || t.OrganizerID == requesterID {
		return nil
	}
	return ErrForbidden
}

func (s *tournamentService) UpdateDetails(ctx context.Context, requesterID int, requesterRole models.PlayerRole, t *models.Tournament) error {
	current, err := s.tournamentRepo.GetByID(ctx, t.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if err := s.authorize(current, requesterID, requesterRole); err != nil {
		return err
	}
	// Details freeze once registration opens; only status moves after that.
	if current.Status != models.StatusDraft && current.Status != models.StatusPublished {
		return ErrTournamentNotEditable
	}

	cfg := configFromTournament(t)
	existing, err := s.existingSchedules(ctx, cfg, t.ID)
	if err != nil {
		return err
	}
	result := validation.Validate(cfg, existing, time.Now())
	if !result.Valid() {
		return &ValidationError{Fields: result.Errors, Warnings: result.Warnings}
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return ErrTournamentNameConflict
		}
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, requesterID int, requesterRole models.PlayerRole, id int, status models.TournamentStatus) error {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if err := s.authorize(t, requesterID, requesterRole); err != nil {
		return err
	}
	if !CanTransition(t.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusChange, t.Status, status)
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return err
	}
	s.logger.Info("tournament status changed",
		slog.Int("tournament_id", id),
		slog.String("from", string(t.Status)),
		slog.String("to", string(status)),
	)
	return nil
}

func (s *tournamentService) Delete(ctx context.Context, requesterID int, requesterRole models.PlayerRole, id int) error {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if err := s.authorize(t, requesterID, requesterRole); err != nil {
		return err
	}
	if t.Status != models.StatusDraft && t.Status != models.StatusCancelled {
		return ErrTournamentImmutable
	}
	return s.tournamentRepo.Delete(ctx, id)
}

func (s *tournamentService) UploadBanner(ctx context.Context, requesterID int, requesterRole models.PlayerRole, id int, file io.Reader, size int64, contentType string) (string, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return "", ErrTournamentNotFound
		}
		return "", err
	}
	if err := s.authorize(t, requesterID, requesterRole); err != nil {
		return "", err
	}
	if s.uploader == nil {
		return "", errors.New("banner storage is not configured")
	}

	key := fmt.Sprintf("tournaments/%d/banner", id)
	url, err := s.uploader.Upload(ctx, key, file, size, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload banner for tournament %d: %w", id, err)
	}
	if err := s.tournamentRepo.UpdateBannerKey(ctx, id, &key); err != nil {
		return "", err
	}
	return url, nil
}

// AutoUpdateStatusesByDates moves every lagging tournament one step along the
// lifecycle. A tournament several steps behind catches up over consecutive
// scheduler ticks rather than jumping stages.
func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	now := time.Now()
	tournaments, err := s.tournamentRepo.ListForAutoStatusUpdate(ctx, now)
	if err != nil {
		return err
	}

	for _, t := range tournaments {
		next, ok := statusTransitions[t.Status]
		if !ok {
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, next); err != nil {
			s.logger.Error("failed to auto-update tournament status",
				slog.Int("tournament_id", t.ID),
				slog.String("to", string(next)),
				slog.Any("error", err),
			)
			continue
		}
		s.logger.Info("tournament status auto-updated",
			slog.Int("tournament_id", t.ID),
			slog.String("from", string(t.Status)),
			slog.String("to", string(next)),
		)
	}
	return nil
}

func (s *tournamentService) resolveBannerURL(t *models.Tournament) {
	if t.BannerKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.PublicURL(*t.BannerKey)
	t.BannerURL = &url
}
