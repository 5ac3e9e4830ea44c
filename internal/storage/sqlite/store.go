package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/storage"
)

// Store is the SQLite-backed implementation of the PlayerStore interface.
// Each progression method runs as a single transaction, so a scan either
// fully commits or has no effect.
type Store struct {
	db       *sql.DB
	migrator *migrate.Migrate
}

// Ensure Store implements the interface
var _ storage.PlayerStore = (*Store)(nil)

// Open opens the database at cfg.Path and applies pending migrations
func Open(cfg Config) (*Store, error) {
	m, err := newMigrator(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(m); err != nil {
		return nil, err
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, migrator: m}, nil
}

// Close closes the database and the migration connection
func (s *Store) Close() error {
	serr, derr := s.migrator.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	if serr != nil {
		return serr
	}
	return derr
}

const playerColumns = "player_id, player_name, current_tag, start_time, end_time, last_scan_time, created_at"

func (s *Store) CreatePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		player.ID,
		player.Name,
		nullString(player.CurrentTag),
		timeToMs(player.StartTime),
		timeToMs(player.EndTime),
		timeToMs(player.LastScanTime),
		player.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrNameTaken
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+playerColumns+` FROM players WHERE player_id = ?`, id)
	return scanPlayer(row)
}

func (s *Store) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+playerColumns+` FROM players WHERE player_name = ?`, name)
	return scanPlayer(row)
}

func (s *Store) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players ORDER BY created_at ASC, player_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func (s *Store) RenamePlayer(ctx context.Context, id model.PlayerID, name string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE players SET player_name = ? WHERE player_id = ?`, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrNameTaken
		}
		return fmt.Errorf("rename player: %w", err)
	}
	return requireRow(res, model.ErrPlayerNotFound)
}

func (s *Store) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE player_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return requireRow(res, model.ErrPlayerNotFound)
}

func (s *Store) StartHunt(ctx context.Context, id model.PlayerID, firstTag string, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE players
		SET current_tag = ?, start_time = ?, last_scan_time = ?
		WHERE player_id = ? AND start_time IS NULL`,
		firstTag, now.UnixMilli(), now.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("start hunt: %w", err)
	}
	if err := requireRow(res, model.ErrAlreadyStarted); err != nil {
		// Distinguish a missing row from a hunt that already started
		if _, getErr := s.GetPlayer(ctx, id); getErr != nil {
			return getErr
		}
		return err
	}
	return nil
}

func (s *Store) AdvancePlayer(ctx context.Context, id model.PlayerID, fromTag, toTag string, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE players
		SET current_tag = ?, last_scan_time = ?
		WHERE player_id = ? AND current_tag = ? AND end_time IS NULL`,
		toTag, now.UnixMilli(), id, fromTag)
	if err != nil {
		return fmt.Errorf("advance player: %w", err)
	}
	if err := requireRow(res, model.ErrScanConflict); err != nil {
		if _, getErr := s.GetPlayer(ctx, id); getErr != nil {
			return getErr
		}
		return err
	}
	return nil
}

func (s *Store) FinishHunt(ctx context.Context, id model.PlayerID, fromTag string, now time.Time) (*model.FinishResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin finish transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE players
		SET current_tag = ?, end_time = ?, last_scan_time = ?
		WHERE player_id = ? AND current_tag = ? AND end_time IS NULL AND start_time IS NOT NULL`,
		model.FinishedTag, now.UnixMilli(), now.UnixMilli(), id, fromTag)
	if err != nil {
		return nil, fmt.Errorf("finish hunt: %w", err)
	}
	if err := requireRow(res, model.ErrScanConflict); err != nil {
		if _, getErr := s.GetPlayer(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, err
	}

	var startMs int64
	if err := tx.QueryRowContext(ctx, `
		SELECT start_time FROM players WHERE player_id = ?`, id).Scan(&startMs); err != nil {
		return nil, fmt.Errorf("read start time: %w", err)
	}
	durationMs := now.UnixMilli() - startMs

	// Rank is computed inside the finish transaction against the other
	// already-finished rows. Equal durations count, so the second of a
	// tied pair ranks behind the first.
	var faster int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM players
		WHERE end_time IS NOT NULL
		  AND player_id <> ?
		  AND (end_time - start_time) <= ?`, id, durationMs).Scan(&faster); err != nil {
		return nil, fmt.Errorf("compute rank: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit finish transaction: %w", err)
	}

	return &model.FinishResult{
		Duration: time.Duration(durationMs) * time.Millisecond,
		Rank:     faster + 1,
	}, nil
}

func (s *Store) ListFinished(ctx context.Context, limit int) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE end_time IS NOT NULL
		ORDER BY (end_time - start_time) ASC, end_time ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list finished players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// Reset drops everything and reapplies the migrations, leaving an empty
// schema behind. This is the full-wipe admin operation.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.migrator.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	if err := migrateUp(s.migrator); err != nil {
		return fmt.Errorf("recreate schema: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*model.Player, error) {
	var (
		p          model.Player
		currentTag sql.NullString
		startMs    sql.NullInt64
		endMs      sql.NullInt64
		lastScanMs sql.NullInt64
		createdMs  int64
	)
	err := row.Scan(&p.ID, &p.Name, &currentTag, &startMs, &endMs, &lastScanMs, &createdMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}

	p.CurrentTag = currentTag.String
	p.StartTime = msToTime(startMs)
	p.EndTime = msToTime(endMs)
	p.LastScanTime = msToTime(lastScanMs)
	p.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &p, nil
}

func scanPlayers(rows *sql.Rows) ([]*model.Player, error) {
	var out []*model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return out, nil
}

// requireRow maps a zero-row update to the given sentinel
func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timeToMs(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func msToTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}
