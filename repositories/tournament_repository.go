package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cueclub/tournament-engine/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInUse        = errors.New("tournament is in use (participants/matches exist)")
)

type ListTournamentsFilter struct {
	Status      *models.TournamentStatus
	Type        *models.TournamentType
	GameFormat  *models.GameFormat
	OrganizerID *int
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	// ListOverlapping returns tournaments whose [tournament_start,
	// tournament_end) window intersects the given one, for the venue
	// conflict check. Cancelled tournaments do not block a venue.
	ListOverlapping(ctx context.Context, start, end time.Time, excludeID int) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateBannerKey(ctx context.Context, id int, bannerKey *string) error
	UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerParticipantID *int) error
	Delete(ctx context.Context, id int) error
	ListForAutoStatusUpdate(ctx context.Context, currentTime time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, description, venue_address, tier, type, game_format,
	max_participants, entry_fee, prize_pool,
	allow_all_ranks, eligible_ranks, min_rank, max_rank,
	registration_start, registration_end, tournament_start, tournament_end,
	status, organizer_id, banner_key, winner_participant_id, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var ranks pq.StringArray
	var minRank, maxRank sql.NullString

	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.VenueAddress, &t.Tier, &t.Type, &t.GameFormat,
		&t.MaxParticipants, &t.EntryFee, &t.PrizePool,
		&t.AllowAllRanks, &ranks, &minRank, &maxRank,
		&t.RegistrationStart, &t.RegistrationEnd, &t.TournamentStart, &t.TournamentEnd,
		&t.Status, &t.OrganizerID, &t.BannerKey, &t.WinnerParticipantID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.EligibleRanks = make([]models.RankCode, len(ranks))
	for i, code := range ranks {
		t.EligibleRanks[i] = models.RankCode(code)
	}
	if minRank.Valid {
		code := models.RankCode(minRank.String)
		t.MinRank = &code
	}
	if maxRank.Valid {
		code := models.RankCode(maxRank.String)
		t.MaxRank = &code
	}
	return t, nil
}

func rankArray(codes []models.RankCode) pq.StringArray {
	arr := make(pq.StringArray, len(codes))
	for i, code := range codes {
		arr[i] = string(code)
	}
	return arr
}

func rankValue(code *models.RankCode) sql.NullString {
	if code == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*code), Valid: true}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, description, venue_address, tier, type, game_format,
			max_participants, entry_fee, prize_pool,
			allow_all_ranks, eligible_ranks, min_rank, max_rank,
			registration_start, registration_end, tournament_start, tournament_end,
			status, organizer_id, banner_key
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.VenueAddress, t.Tier, t.Type, t.GameFormat,
		t.MaxParticipants, t.EntryFee, t.PrizePool,
		t.AllowAllRanks, rankArray(t.EligibleRanks), rankValue(t.MinRank), rankValue(t.MaxRank),
		t.RegistrationStart, t.RegistrationEnd, t.TournamentStart, t.TournamentEnd,
		t.Status, t.OrganizerID, t.BannerKey,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argID)
		args = append(args, *filter.Type)
		argID++
	}
	if filter.GameFormat != nil {
		query += fmt.Sprintf(" AND game_format = $%d", argID)
		args = append(args, *filter.GameFormat)
		argID++
	}
	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}

	query += " ORDER BY tournament_start DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) ListOverlapping(ctx context.Context, start, end time.Time, excludeID int) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + `
		FROM tournaments
		WHERE tournament_start < $1
		  AND tournament_end > $2
		  AND status <> $3
		  AND id <> $4`

	rows, err := r.db.QueryContext(ctx, query, end, start, models.StatusCancelled, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1, description = $2, venue_address = $3, tier = $4,
			type = $5, game_format = $6, max_participants = $7,
			entry_fee = $8, prize_pool = $9,
			allow_all_ranks = $10, eligible_ranks = $11, min_rank = $12, max_rank = $13,
			registration_start = $14, registration_end = $15,
			tournament_start = $16, tournament_end = $17
		WHERE id = $18`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.VenueAddress, t.Tier,
		t.Type, t.GameFormat, t.MaxParticipants,
		t.EntryFee, t.PrizePool,
		t.AllowAllRanks, rankArray(t.EligibleRanks), rankValue(t.MinRank), rankValue(t.MaxRank),
		t.RegistrationStart, t.RegistrationEnd,
		t.TournamentStart, t.TournamentEnd,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBannerKey(ctx context.Context, id int, bannerKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET banner_key = $1 WHERE id = $2`, nullableString(bannerKey), id)
	if err != nil {
		return fmt.Errorf("failed to update tournament banner key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerParticipantID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET winner_participant_id = $1 WHERE id = $2`, winnerParticipantID, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament winner for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	// Matches, prize items, sponsors and rewards cascade with the aggregate.
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ListForAutoStatusUpdate returns tournaments whose status lags behind their
// schedule windows at currentTime. Draft tournaments are excluded: going
// public is always an explicit organizer action.
func (r *postgresTournamentRepository) ListForAutoStatusUpdate(ctx context.Context, currentTime time.Time) ([]*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + `
		FROM tournaments
		WHERE (status = $1 AND registration_start <= $5)
		   OR (status = $2 AND registration_end <= $5)
		   OR (status = $3 AND tournament_start <= $5)
		   OR (status = $4 AND tournament_end <= $5)`

	rows, err := r.db.QueryContext(ctx, query,
		models.StatusPublished,
		models.StatusRegistrationOpen,
		models.StatusRegistrationClosed,
		models.StatusOngoing,
		currentTime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for auto status update: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament for auto status update: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_organizer_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			return ErrTournamentInUse
		}
	}
	return err
}
