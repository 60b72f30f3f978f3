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
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrRegistrationConflict = errors.New("player is already registered for this tournament")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.ParticipantStatus, withPlayer bool) ([]models.Participant, error)
	CountByTournament(ctx context.Context, tournamentID int, statuses []models.ParticipantStatus) (int, error)
	FindByPlayerAndTournament(ctx context.Context, playerID, tournamentID int) (*models.Participant, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ParticipantStatus) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO participants (tournament_id, player_id, rank_snapshot, rating_snapshot, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.TournamentID, p.PlayerID, p.RankSnapshot, p.RatingSnapshot, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrRegistrationConflict
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, tournament_id, player_id, rank_snapshot, rating_snapshot, status, created_at
		FROM participants WHERE id = $1`

	p := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TournamentID, &p.PlayerID, &p.RankSnapshot, &p.RatingSnapshot, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.ParticipantStatus, withPlayer bool) ([]models.Participant, error) {
	query := `
		SELECT p.id, p.tournament_id, p.player_id, p.rank_snapshot, p.rating_snapshot, p.status, p.created_at`
	if withPlayer {
		query += `,
			u.id, u.full_name, u.nickname, u.email, u.role, u.rank, u.rating, u.created_at`
	}
	query += `
		FROM participants p`
	if withPlayer {
		query += `
		JOIN players u ON u.id = p.player_id`
	}
	query += `
		WHERE p.tournament_id = $1`

	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND p.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY p.created_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if withPlayer {
			p.Player = &models.Player{}
			err = rows.Scan(
				&p.ID, &p.TournamentID, &p.PlayerID, &p.RankSnapshot, &p.RatingSnapshot, &p.Status, &p.CreatedAt,
				&p.Player.ID, &p.Player.FullName, &p.Player.Nickname, &p.Player.Email,
				&p.Player.Role, &p.Player.Rank, &p.Player.Rating, &p.Player.CreatedAt,
			)
		} else {
			err = rows.Scan(
				&p.ID, &p.TournamentID, &p.PlayerID, &p.RankSnapshot, &p.RatingSnapshot, &p.Status, &p.CreatedAt,
			)
		}
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID int, statuses []models.ParticipantStatus) (int, error) {
	query := `SELECT COUNT(*) FROM participants WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if len(statuses) > 0 {
		values := make(pq.StringArray, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query += ` AND status = ANY($2)`
		args = append(args, values)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) FindByPlayerAndTournament(ctx context.Context, playerID, tournamentID int) (*models.Participant, error) {
	query := `
		SELECT id, tournament_id, player_id, rank_snapshot, rating_snapshot, status, created_at
		FROM participants WHERE player_id = $1 AND tournament_id = $2`

	p := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, playerID, tournamentID).Scan(
		&p.ID, &p.TournamentID, &p.PlayerID, &p.RankSnapshot, &p.RatingSnapshot, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ParticipantStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
