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
	ErrPlayerNotFound    = errors.New("player not found")
	ErrEmailAlreadyTaken = errors.New("email already taken")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	UpdateRank(ctx context.Context, id int, rank models.RankCode, rating int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (full_name, nickname, email, password_hash, role, rank, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.FullName, p.Nickname, p.Email, p.PasswordHash, p.Role, p.Rank, p.Rating,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrEmailAlreadyTaken
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, full_name, nickname, email, password_hash, role, rank, rating, created_at
		FROM players WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	query := `
		SELECT id, full_name, nickname, email, password_hash, role, rank, rating, created_at
		FROM players WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresPlayerRepository) UpdateRank(ctx context.Context, id int, rank models.RankCode, rating int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET rank = $1, rating = $2 WHERE id = $3`, rank, rating, id)
	if err != nil {
		return fmt.Errorf("failed to update player rank: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) scanOne(row *sql.Row) (*models.Player, error) {
	p := &models.Player{}
	err := row.Scan(
		&p.ID, &p.FullName, &p.Nickname, &p.Email, &p.PasswordHash, &p.Role, &p.Rank, &p.Rating, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}
