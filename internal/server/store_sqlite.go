package server

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/snapguess/snapguess/internal/snapguess"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure
// involving the given column path (e.g. "games.code").
func isUniqueViolation(err error, column string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), column)
}

func (s *SQLiteStore) PlayerFromToken(ctx context.Context, token string) (sessionInfo, error) {
	var sess sessionInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, game_id, is_host FROM players WHERE session_id = ?
	`, token).Scan(&sess.PlayerID, &sess.GameID, &sess.IsHost)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, errNoSession
	}
	return sess, err
}

func (s *SQLiteStore) CreateGame(ctx context.Context, code string) (snapguess.Game, error) {
	g := snapguess.Game{
		ID:    uuid.NewString(),
		Code:  code,
		Phase: snapguess.PhaseLobby,
	}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO games (id, code) VALUES (?, ?)
		RETURNING created_at
	`, g.ID, g.Code).Scan(&createdAt)
	if isUniqueViolation(err, "games.code") {
		return snapguess.Game{}, ErrConflict
	}
	if err != nil {
		return snapguess.Game{}, err
	}
	return g, nil
}

func (s *SQLiteStore) gameBy(ctx context.Context, where, arg string) (snapguess.Game, error) {
	var g snapguess.Game
	var host sql.NullString
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, status, current_round, host_player_id, created_at
		FROM games WHERE `+where+` = ?
	`, arg).Scan(&g.ID, &g.Code, (*string)(&g.Phase), &g.CurrentRound, &host, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrNotFound
	}
	if host.Valid {
		g.HostPlayerID = host.String
	}
	return g, err
}

func (s *SQLiteStore) GameByCode(ctx context.Context, code string) (snapguess.Game, error) {
	return s.gameBy(ctx, "code", code)
}

func (s *SQLiteStore) GameByID(ctx context.Context, id string) (snapguess.Game, error) {
	return s.gameBy(ctx, "id", id)
}

func (s *SQLiteStore) JoinGame(ctx context.Context, gameID, displayName string) (snapguess.Player, string, error) {
	p := snapguess.Player{
		ID:          uuid.NewString(),
		GameID:      gameID,
		DisplayName: displayName,
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return snapguess.Player{}, "", err
	}
	defer tx.Rollback()

	var sessionID, createdAt string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO players (id, game_id, display_name)
		VALUES (?, ?, ?)
		RETURNING session_id, created_at
	`, p.ID, p.GameID, p.DisplayName).Scan(&sessionID, &createdAt)
	if err != nil {
		return snapguess.Player{}, "", err
	}

	// Claim host if nobody has it yet. The conditional update decides
	// concurrent first-joiner races at the storage boundary: exactly one
	// writer sees host_player_id IS NULL.
	res, err := tx.ExecContext(ctx, `
		UPDATE games SET host_player_id = ?
		WHERE id = ? AND host_player_id IS NULL
	`, p.ID, gameID)
	if err != nil {
		return snapguess.Player{}, "", err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		p.IsHost = true
		if _, err := tx.ExecContext(ctx, `
			UPDATE players SET is_host = 1 WHERE id = ?
		`, p.ID); err != nil {
			return snapguess.Player{}, "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return snapguess.Player{}, "", err
	}
	return p, sessionID, nil
}

func (s *SQLiteStore) ListPlayers(ctx context.Context, gameID string) ([]snapguess.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, display_name, COALESCE(avatar_emoji, ''), is_host
		FROM players WHERE game_id = ? ORDER BY rowid
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []snapguess.Player
	for rows.Next() {
		var p snapguess.Player
		if err := rows.Scan(&p.ID, &p.GameID, &p.DisplayName, &p.AvatarEmoji, &p.IsHost); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) CountPlayers(ctx context.Context, gameID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM players WHERE game_id = ?
	`, gameID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) SetPhase(ctx context.Context, gameID string, from, to snapguess.Phase) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE games SET status = ? WHERE id = ? AND status = ?
	`, to.String(), gameID, from.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLiteStore) AdvanceRound(ctx context.Context, gameID string, observedRound int) (int, bool, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM photo_submissions WHERE game_id = ?
	`, gameID).Scan(&count)
	if err != nil {
		return 0, false, err
	}

	next := observedRound + 1
	var res sql.Result
	finished := next >= count
	if finished {
		res, err = tx.ExecContext(ctx, `
			UPDATE games SET status = 'finished'
			WHERE id = ? AND current_round = ? AND status = 'playing'
		`, gameID, observedRound)
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE games SET current_round = ?
			WHERE id = ? AND current_round = ? AND status = 'playing'
		`, next, gameID, observedRound)
	}
	if err != nil {
		return 0, false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, false, ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	return next, finished, nil
}

func (s *SQLiteStore) RestartGame(ctx context.Context, gameID string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM guesses WHERE photo_submission_id IN
			(SELECT id FROM photo_submissions WHERE game_id = ?)
	`, gameID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM photo_submissions WHERE game_id = ?
	`, gameID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE games SET status = 'submission', current_round = 0 WHERE id = ?
	`, gameID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (s *SQLiteStore) InsertSubmission(ctx context.Context, sub snapguess.PhotoSubmission) (snapguess.PhotoSubmission, error) {
	sub.ID = uuid.NewString()
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO photo_submissions
			(id, game_id, player_id, image_url, caption, true_lat, true_lng, true_location_text)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?, NULLIF(?, ''))
		RETURNING created_at
	`, sub.ID, sub.GameID, sub.PlayerID, sub.ImageURL, sub.Caption,
		sub.TrueLocation.Lat, sub.TrueLocation.Lng, sub.LocationText).Scan(&createdAt)
	if isUniqueViolation(err, "photo_submissions.game_id") {
		return snapguess.PhotoSubmission{}, snapguess.ErrDuplicatePhoto
	}
	if err != nil {
		return snapguess.PhotoSubmission{}, err
	}
	return sub, nil
}

const submissionColumns = `
	id, game_id, player_id, image_url, COALESCE(caption, ''),
	true_lat, true_lng, COALESCE(true_location_text, '')
`

func scanSubmission(row interface{ Scan(...any) error }) (snapguess.PhotoSubmission, error) {
	var sub snapguess.PhotoSubmission
	err := row.Scan(&sub.ID, &sub.GameID, &sub.PlayerID, &sub.ImageURL, &sub.Caption,
		&sub.TrueLocation.Lat, &sub.TrueLocation.Lng, &sub.LocationText)
	return sub, err
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, gameID string) ([]snapguess.PhotoSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM photo_submissions WHERE game_id = ? ORDER BY rowid
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []snapguess.PhotoSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) CountSubmissions(ctx context.Context, gameID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM photo_submissions WHERE game_id = ?
	`, gameID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) SubmissionByID(ctx context.Context, id string) (snapguess.PhotoSubmission, error) {
	sub, err := scanSubmission(s.db.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM photo_submissions WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return sub, ErrNotFound
	}
	return sub, err
}

func (s *SQLiteStore) SubmissionAt(ctx context.Context, gameID string, round int) (snapguess.PhotoSubmission, error) {
	// Creation order defines round order.
	sub, err := scanSubmission(s.db.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM photo_submissions WHERE game_id = ?
		ORDER BY rowid LIMIT 1 OFFSET ?
	`, gameID, round))
	if errors.Is(err, sql.ErrNoRows) {
		return sub, ErrNotFound
	}
	return sub, err
}

func (s *SQLiteStore) InsertGuess(ctx context.Context, g snapguess.Guess) (snapguess.Guess, error) {
	g.ID = uuid.NewString()
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO guesses
			(id, photo_submission_id, player_id, guessed_lat, guessed_lng,
			 distance_km, location_score, owner_bonus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`, g.ID, g.SubmissionID, g.PlayerID, g.GuessedAt.Lat, g.GuessedAt.Lng,
		g.DistanceKm, g.LocationScore, g.OwnerBonus).Scan(&createdAt)
	if isUniqueViolation(err, "guesses.photo_submission_id") {
		return snapguess.Guess{}, snapguess.ErrDuplicateGuess
	}
	if err != nil {
		return snapguess.Guess{}, err
	}
	return g, nil
}

func (s *SQLiteStore) ListGuesses(ctx context.Context, submissionID string) ([]snapguess.Guess, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, photo_submission_id, player_id, guessed_lat, guessed_lng,
			distance_km, location_score, owner_bonus, applied
		FROM guesses WHERE photo_submission_id = ?
		ORDER BY location_score DESC, created_at
	`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guesses []snapguess.Guess
	for rows.Next() {
		var g snapguess.Guess
		if err := rows.Scan(&g.ID, &g.SubmissionID, &g.PlayerID,
			&g.GuessedAt.Lat, &g.GuessedAt.Lng,
			&g.DistanceKm, &g.LocationScore, &g.OwnerBonus, &g.Applied); err != nil {
			return nil, err
		}
		guesses = append(guesses, g)
	}
	return guesses, rows.Err()
}

func (s *SQLiteStore) CountGuesses(ctx context.Context, submissionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM guesses WHERE photo_submission_id = ?
	`, submissionID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) ApplyGuesses(ctx context.Context, submissionID string) (int64, error) {
	// Idempotent: repeated or concurrent reveals converge on the same
	// applied set because only applied = 0 rows are touched.
	res, err := s.db.ExecContext(ctx, `
		UPDATE guesses SET applied = 1
		WHERE photo_submission_id = ? AND applied = 0
	`, submissionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Scores(ctx context.Context, gameID string) (map[string]int, error) {
	// The applied-guess ledger is the single source of truth for totals.
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, COALESCE(SUM(g.location_score), 0)
		FROM players p
		LEFT JOIN guesses g ON g.player_id = p.id AND g.applied = 1
		WHERE p.game_id = ?
		GROUP BY p.id
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[string]int)
	for rows.Next() {
		var playerID string
		var total int
		if err := rows.Scan(&playerID, &total); err != nil {
			return nil, err
		}
		scores[playerID] = total
	}
	return scores, rows.Err()
}
