package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
)

// countedStatuses are the registration states that occupy a capacity slot.
// Rejected and substituted rows keep history but free their seat.
var countedStatuses = []models.ParticipantStatus{
	models.ParticipantRegistered,
	models.ParticipantConfirmed,
}

type ParticipantService interface {
	Register(ctx context.Context, tournamentID, playerID int) (*models.Participant, error)
	ChangeStatus(ctx context.Context, requesterID int, requesterRole models.PlayerRole, participantID int, status models.ParticipantStatus) error
	ListByTournament(ctx context.Context, tournamentID int, status *models.ParticipantStatus) ([]models.Participant, error)
}

type participantService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	playerRepo      repositories.PlayerRepository
	logger          *slog.Logger
}

func NewParticipantService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	playerRepo repositories.PlayerRepository,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		playerRepo:      playerRepo,
		logger:          logger,
	}
}

// RankEligible reports whether a rank may enter a tournament under its
// eligibility policy. An explicit rank set takes precedence over a min/max
// range when both are present.
func RankEligible(t *models.Tournament, rank models.RankCode) bool {
	if t.AllowAllRanks {
		return true
	}
	if len(t.EligibleRanks) > 0 {
		for _, code := range t.EligibleRanks {
			if code == rank {
				return true
			}
		}
		return false
	}
	ordinal, ok := models.RankOrdinal(rank)
	if !ok {
		return false
	}
	if t.MinRank != nil {
		if min, ok := models.RankOrdinal(*t.MinRank); ok && ordinal < min {
			return false
		}
	}
	if t.MaxRank != nil {
		if max, ok := models.RankOrdinal(*t.MaxRank); ok && ordinal > max {
			return false
		}
	}
	return true
}

func (s *participantService) Register(ctx context.Context, tournamentID, playerID int) (*models.Participant, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	now := time.Now()
	if t.Status != models.StatusRegistrationOpen ||
		now.Before(t.RegistrationStart) || !now.Before(t.RegistrationEnd) {
		return nil, ErrRegistrationClosed
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if !RankEligible(t, player.Rank) {
		return nil, ErrPlayerNotEligible
	}

	count, err := s.participantRepo.CountByTournament(ctx, tournamentID, countedStatuses)
	if err != nil {
		return nil, err
	}
	if count >= t.MaxParticipants {
		return nil, ErrTournamentFull
	}

	participant := &models.Participant{
		TournamentID:   tournamentID,
		PlayerID:       playerID,
		RankSnapshot:   player.Rank,
		RatingSnapshot: player.Rating,
		Status:         models.ParticipantRegistered,
	}
	if err := s.participantRepo.Create(ctx, nil, participant); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	s.logger.Info("player registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("player_id", playerID),
		slog.String("rank", string(player.Rank)),
	)
	return participant, nil
}

// participantTransitions lists the legal manual status moves. Substitution
// is excluded: it only happens through the bracket service, which pairs it
// with a replacement entry.
var participantTransitions = map[models.ParticipantStatus][]models.ParticipantStatus{
	models.ParticipantRegistered: {models.ParticipantConfirmed, models.ParticipantRejected},
	models.ParticipantConfirmed:  {models.ParticipantRejected},
}

func (s *participantService) ChangeStatus(ctx context.Context, requesterID int, requesterRole models.PlayerRole, participantID int, status models.ParticipantStatus) error {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	t, err := s.tournamentRepo.GetByID(ctx, participant.TournamentID)
	if err != nil {
		return err
	}
	if requesterRole != models.RoleAdmin && t.OrganizerID != requesterID {
		return ErrForbidden
	}

	allowed := false
	for _, next := range participantTransitions[participant.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidParticipantState
	}
	return s.participantRepo.UpdateStatus(ctx, nil, participantID, status)
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int, status *models.ParticipantStatus) ([]models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.participantRepo.ListByTournament(ctx, tournamentID, status, true)
}
