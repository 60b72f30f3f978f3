package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/cueclub/tournament-engine/models"
)

var (
	ErrPrizeItemNotFound = errors.New("prize item not found")
	ErrSponsorNotFound   = errors.New("sponsor contribution not found")
	ErrRewardNotFound    = errors.New("additional reward not found")
	ErrPositionTaken     = errors.New("placement position already taken")
)

type PrizeRepository interface {
	CreatePlacement(ctx context.Context, item *models.PrizeItem) error
	ListPlacements(ctx context.Context, tournamentID int) ([]models.PrizeItem, error)
	DeletePlacement(ctx context.Context, id string) error

	CreateSponsor(ctx context.Context, sponsor *models.SponsorContribution) error
	ListSponsors(ctx context.Context, tournamentID int) ([]models.SponsorContribution, error)
	DeleteSponsor(ctx context.Context, id string) error

	CreateReward(ctx context.Context, reward *models.AdditionalReward) error
	ListRewards(ctx context.Context, tournamentID int) ([]models.AdditionalReward, error)
	DeleteReward(ctx context.Context, id string) error
}

type postgresPrizeRepository struct {
	db *sql.DB
}

func NewPostgresPrizeRepository(db *sql.DB) PrizeRepository {
	return &postgresPrizeRepository{db: db}
}

func (r *postgresPrizeRepository) CreatePlacement(ctx context.Context, item *models.PrizeItem) error {
	query := `
		INSERT INTO prize_items (id, tournament_id, position, title, amount, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.TournamentID, item.Position, item.Title, item.Amount, item.Type,
	).Scan(&item.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrPositionTaken
		}
		return fmt.Errorf("failed to create prize item: %w", err)
	}
	return nil
}

func (r *postgresPrizeRepository) ListPlacements(ctx context.Context, tournamentID int) ([]models.PrizeItem, error) {
	query := `
		SELECT id, tournament_id, position, title, amount, type, created_at
		FROM prize_items WHERE tournament_id = $1
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.PrizeItem, 0)
	for rows.Next() {
		var item models.PrizeItem
		if err := rows.Scan(&item.ID, &item.TournamentID, &item.Position, &item.Title, &item.Amount, &item.Type, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresPrizeRepository) DeletePlacement(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM prize_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prize item: %w", err)
	}
	return checkAffectedRows(result, ErrPrizeItemNotFound)
}

func (r *postgresPrizeRepository) CreateSponsor(ctx context.Context, sponsor *models.SponsorContribution) error {
	query := `
		INSERT INTO sponsor_contributions (id, tournament_id, name, amount, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		sponsor.ID, sponsor.TournamentID, sponsor.Name, sponsor.Amount, sponsor.Type,
	).Scan(&sponsor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sponsor contribution: %w", err)
	}
	return nil
}

func (r *postgresPrizeRepository) ListSponsors(ctx context.Context, tournamentID int) ([]models.SponsorContribution, error) {
	query := `
		SELECT id, tournament_id, name, amount, type, created_at
		FROM sponsor_contributions WHERE tournament_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sponsors := make([]models.SponsorContribution, 0)
	for rows.Next() {
		var s models.SponsorContribution
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.Name, &s.Amount, &s.Type, &s.CreatedAt); err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

func (r *postgresPrizeRepository) DeleteSponsor(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sponsor_contributions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sponsor contribution: %w", err)
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}

func (r *postgresPrizeRepository) CreateReward(ctx context.Context, reward *models.AdditionalReward) error {
	query := `
		INSERT INTO additional_rewards (id, tournament_id, title, criteria, value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		reward.ID, reward.TournamentID, reward.Title, reward.Criteria, reward.Value,
	).Scan(&reward.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create additional reward: %w", err)
	}
	return nil
}

func (r *postgresPrizeRepository) ListRewards(ctx context.Context, tournamentID int) ([]models.AdditionalReward, error) {
	query := `
		SELECT id, tournament_id, title, criteria, value, created_at
		FROM additional_rewards WHERE tournament_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rewards := make([]models.AdditionalReward, 0)
	for rows.Next() {
		var reward models.AdditionalReward
		if err := rows.Scan(&reward.ID, &reward.TournamentID, &reward.Title, &reward.Criteria, &reward.Value, &reward.CreatedAt); err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

func (r *postgresPrizeRepository) DeleteReward(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM additional_rewards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete additional reward: %w", err)
	}
	return checkAffectedRows(result, ErrRewardNotFound)
}
