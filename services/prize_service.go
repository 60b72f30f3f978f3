package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/prizes"
	"github.com/cueclub/tournament-engine/repositories"
)

type PrizeService interface {
	AddPlacement(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID, position int, title string, amount int64, prizeType models.PrizeType) (*models.PrizeItem, error)
	RemovePlacement(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, id string) error
	AddSponsor(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, name string, amount int64, sponsorType models.SponsorType) (*models.SponsorContribution, error)
	RemoveSponsor(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, id string) error
	AddReward(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, title, criteria string, value int64) (*models.AdditionalReward, error)
	RemoveReward(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, id string) error
	Summary(ctx context.Context, tournamentID int) (*prizes.Summary, error)
	// Reconcile compares funding against committed payouts. When
	// actualRevenue is nil the realized entry fees (fee times confirmed
	// participants) stand in for it.
	Reconcile(ctx context.Context, tournamentID int, actualRevenue *int64) (*prizes.ReconciliationReport, error)
}

type prizeService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	prizeRepo       repositories.PrizeRepository
	logger          *slog.Logger
}

func NewPrizeService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	prizeRepo repositories.PrizeRepository,
	logger *slog.Logger,
) PrizeService {
	return &prizeService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		prizeRepo:       prizeRepo,
		logger:          logger,
	}
}

func (s *prizeService) ledger(ctx context.Context, tournamentID int) (*prizes.Ledger, *models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, err
	}

	ledger := &prizes.Ledger{TournamentID: tournamentID, TotalPool: t.PrizePool}
	if ledger.Placements, err = s.prizeRepo.ListPlacements(ctx, tournamentID); err != nil {
		return nil, nil, err
	}
	if ledger.Sponsors, err = s.prizeRepo.ListSponsors(ctx, tournamentID); err != nil {
		return nil, nil, err
	}
	if ledger.Rewards, err = s.prizeRepo.ListRewards(ctx, tournamentID); err != nil {
		return nil, nil, err
	}
	return ledger, t, nil
}

func (s *prizeService) ledgerForEdit(ctx context.Context, tournamentID, requesterID int, requesterRole models.PlayerRole) (*prizes.Ledger, error) {
	ledger, t, err := s.ledger(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if requesterRole != models.RoleAdmin && t.OrganizerID != requesterID {
		return nil, ErrForbidden
	}
	return ledger, nil
}

func (s *prizeService) AddPlacement(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID, position int, title string, amount int64, prizeType models.PrizeType) (*models.PrizeItem, error) {
	ledger, err := s.ledgerForEdit(ctx, tournamentID, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}
	item, err := ledger.AddPlacement(position, title, amount, prizeType)
	if err != nil {
		return nil, err
	}
	if err := s.prizeRepo.CreatePlacement(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrPositionTaken) {
			return nil, prizes.ErrDuplicatePlacement
		}
		return nil, err
	}
	return item, nil
}

func (s *prizeService) RemovePlacement(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, id string) error {
	ledger, err := s.ledgerForEdit(ctx, tournamentID, requesterID, requesterRole)
	if err != nil {
		return err
	}
	if err := ledger.RemovePlacement(id); err != nil {
		return ErrPrizeEntryNotFound
	}
	if err := s.prizeRepo.DeletePlacement(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPrizeItemNotFound) {
			return ErrPrizeEntryNotFound
		}
		return err
	}
	return nil
}

func (s *prizeService) AddSponsor(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, name string, amount int64, sponsorType models.SponsorType) (*models.SponsorContribution, error) {
	ledger, err := s.ledgerForEdit(ctx, tournamentID, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}
	sponsor, err := ledger.AddSponsor(name, amount, sponsorType)
	if err != nil {
		return nil, err
	}
	if err := s.prizeRepo.CreateSponsor(ctx, sponsor); err != nil {
		return nil, err
	}
	return sponsor, nil
}

func (s *prizeService) RemoveSponsor(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, id string) error {
	ledger, err := s.ledgerForEdit(ctx, tournamentID, requesterID, requesterRole)
	if err != nil {
		return err
	}
	if err := ledger.RemoveSponsor(id); err != nil {
		return ErrPrizeEntryNotFound
	}
	if err := s.prizeRepo.DeleteSponsor(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSponsorNotFound) {
			return ErrPrizeEntryNotFound
		}
		return err
	}
	return nil
}

func (s *prizeService) AddReward(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, title, criteria string, value int64) (*models.AdditionalReward, error) {
	ledger, err := s.ledgerForEdit(ctx, tournamentID, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}
	reward, err := ledger.AddReward(title, criteria, value)
	if err != nil {
		return nil, err
	}
	if err := s.prizeRepo.CreateReward(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *prizeService) RemoveReward(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, id string) error {
	ledger, err := s.ledgerForEdit(ctx, tournamentID, requesterID, requesterRole)
	if err != nil {
		return err
	}
	if err := ledger.RemoveReward(id); err != nil {
		return ErrPrizeEntryNotFound
	}
	if err := s.prizeRepo.DeleteReward(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRewardNotFound) {
			return ErrPrizeEntryNotFound
		}
		return err
	}
	return nil
}

func (s *prizeService) Summary(ctx context.Context, tournamentID int) (*prizes.Summary, error) {
	ledger, _, err := s.ledger(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize()
	if summary.Remaining < 0 {
		s.logger.Warn("prize pool overcommitted",
			slog.Int("tournament_id", tournamentID),
			slog.Int64("remaining", summary.Remaining),
		)
	}
	return &summary, nil
}

func (s *prizeService) Reconcile(ctx context.Context, tournamentID int, actualRevenue *int64) (*prizes.ReconciliationReport, error) {
	ledger, t, err := s.ledger(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	revenue := int64(0)
	if actualRevenue != nil {
		revenue = *actualRevenue
	} else {
		confirmed := []models.ParticipantStatus{models.ParticipantConfirmed}
		count, countErr := s.participantRepo.CountByTournament(ctx, tournamentID, confirmed)
		if countErr != nil {
			return nil, countErr
		}
		revenue = t.EntryFee * int64(count)
	}

	report := ledger.Reconcile(revenue)
	return &report, nil
}
