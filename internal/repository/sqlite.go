package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/luckydraw/internal/models"
)

// HistoryLimit is the number of history entries kept per program
const HistoryLimit = 50

// Repository provides data access methods
type Repository struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := newWithDB(db)
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

func newWithDB(db *sql.DB) *Repository {
	return &Repository{db: db, newID: uuid.NewString, now: time.Now}
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS programs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL DEFAULT '',
			draw_count INTEGER NOT NULL DEFAULT 1,
			allow_duplicate BOOLEAN NOT NULL DEFAULT 0,
			spin_speed TEXT NOT NULL DEFAULT 'normal',
			remove_after_draw BOOLEAN NOT NULL DEFAULT 0,
			skip_animation BOOLEAN NOT NULL DEFAULT 0,
			show_probability BOOLEAN NOT NULL DEFAULT 1,
			keep_history BOOLEAN NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS participants (
			id TEXT PRIMARY KEY,
			program_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			weight INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL,
			FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS exclusions (
			program_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (program_id, name),
			FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS ladder_labels (
			program_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			PRIMARY KEY (program_id, position),
			FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			program_id INTEGER NOT NULL,
			game TEXT NOT NULL,
			name TEXT NOT NULL,
			drawn_at INTEGER NOT NULL,
			FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_participants_program ON participants(program_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_history_program ON history(program_id, id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// base_url is not seeded here; app.go sets it from the detected LAN address
	return nil
}

// ==================== Program Methods ====================

const programColumns = `id, name, thumbnail_url, draw_count, allow_duplicate, spin_speed,
	remove_after_draw, skip_animation, show_probability, keep_history, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (models.Program, error) {
	var p models.Program
	var createdAt int64
	err := row.Scan(&p.ID, &p.Name, &p.ThumbnailURL, &p.Draw.DrawCount, &p.Draw.AllowDuplicate,
		&p.Roulette.SpinSpeed, &p.Config.RemoveAfterDraw, &p.Config.SkipAnimation,
		&p.Config.ShowProbability, &p.Config.KeepHistory, &createdAt)
	if err != nil {
		return models.Program{}, err
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return p, nil
}

// ListPrograms returns all programs, oldest first
func (r *Repository) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+programColumns+` FROM programs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := []models.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// GetProgram retrieves a program by ID
func (r *Repository) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE id = ?`, id)
	p, err := scanProgram(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProgram inserts a program and returns its ID
func (r *Repository) CreateProgram(ctx context.Context, p models.Program) (int64, error) {
	return insertProgram(ctx, r.db, p, r.now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertProgram(ctx context.Context, db execer, p models.Program, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO programs (name, thumbnail_url, draw_count, allow_duplicate, spin_speed,
			remove_after_draw, skip_animation, show_probability, keep_history, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.ThumbnailURL, p.Draw.DrawCount, p.Draw.AllowDuplicate, p.Roulette.SpinSpeed,
		p.Config.RemoveAfterDraw, p.Config.SkipAnimation, p.Config.ShowProbability,
		p.Config.KeepHistory, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateProgramName renames a program
func (r *Repository) UpdateProgramName(ctx context.Context, id int, name string) error {
	return r.execOne(ctx, `UPDATE programs SET name = ? WHERE id = ?`, name, id)
}

// UpdateProgramSettings replaces the draw, roulette and config settings of a program
func (r *Repository) UpdateProgramSettings(ctx context.Context, id int, draw models.DrawSettings, roulette models.RouletteSettings, config models.ProgramConfig) error {
	return r.execOne(ctx, `
		UPDATE programs SET draw_count = ?, allow_duplicate = ?, spin_speed = ?,
			remove_after_draw = ?, skip_animation = ?, show_probability = ?, keep_history = ?
		WHERE id = ?
	`, draw.DrawCount, draw.AllowDuplicate, roulette.SpinSpeed,
		config.RemoveAfterDraw, config.SkipAnimation, config.ShowProbability, config.KeepHistory, id)
}

// DeleteProgram removes a program and everything attached to it
func (r *Repository) DeleteProgram(ctx context.Context, id int) error {
	return r.execOne(ctx, `DELETE FROM programs WHERE id = ?`, id)
}

// execOne runs a statement that must touch exactly one row
func (r *Repository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportProgram creates a program with its participants, exclusions and ladder labels
// in a single transaction
func (r *Repository) ImportProgram(ctx context.Context, p models.Program, participants []models.Participant, exclusions, labels []string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := insertProgram(ctx, tx, p, r.now())
	if err != nil {
		return 0, err
	}
	for i, part := range participants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO participants (id, program_id, name, weight, position) VALUES (?, ?, ?, ?, ?)`,
			r.newID(), id, part.Name, part.Weight, i); err != nil {
			return 0, err
		}
	}
	for _, name := range exclusions {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO exclusions (program_id, name) VALUES (?, ?)`, id, name); err != nil {
			return 0, err
		}
	}
	for i, label := range labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ladder_labels (program_id, position, label) VALUES (?, ?, ?)`, id, i, label); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ==================== Participant Methods ====================

// ListParticipants returns a program's participants in insertion order
func (r *Repository) ListParticipants(ctx context.Context, programID int) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, program_id, name, weight, position
		FROM participants
		WHERE program_id = ?
		ORDER BY position, rowid
	`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.ProgramID, &p.Name, &p.Weight, &p.Position); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// AddParticipant appends a participant with a fresh UUID
func (r *Repository) AddParticipant(ctx context.Context, programID int, name string, weight int) (models.Participant, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM participants WHERE program_id = ?`, programID).Scan(&next)
	if err != nil {
		return models.Participant{}, err
	}

	p := models.Participant{
		ID:        r.newID(),
		ProgramID: programID,
		Name:      name,
		Weight:    weight,
		Position:  next,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO participants (id, program_id, name, weight, position) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ProgramID, p.Name, p.Weight, p.Position)
	if err != nil {
		return models.Participant{}, err
	}
	return p, nil
}

// UpdateParticipantWeight sets a participant's weight
func (r *Repository) UpdateParticipantWeight(ctx context.Context, programID int, id string, weight int) error {
	return r.execOne(ctx, `UPDATE participants SET weight = ? WHERE program_id = ? AND id = ?`, weight, programID, id)
}

// RemoveParticipant deletes one participant
func (r *Repository) RemoveParticipant(ctx context.Context, programID int, id string) error {
	return r.execOne(ctx, `DELETE FROM participants WHERE program_id = ? AND id = ?`, programID, id)
}

// RemoveParticipants deletes several participants; unknown IDs are ignored
func (r *Repository) RemoveParticipants(ctx context.Context, programID int, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE program_id = ? AND id = ?`, programID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ClearParticipants deletes all participants of a program
func (r *Repository) ClearParticipants(ctx context.Context, programID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE program_id = ?`, programID)
	return err
}

// ==================== Exclusion Methods ====================

// ListExclusions returns a program's excluded names
func (r *Repository) ListExclusions(ctx context.Context, programID int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM exclusions WHERE program_id = ? ORDER BY rowid`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddExclusion records a name as excluded; adding it twice is a no-op
func (r *Repository) AddExclusion(ctx context.Context, programID int, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO exclusions (program_id, name) VALUES (?, ?)`, programID, name)
	return err
}

// RemoveExclusion removes an excluded name
func (r *Repository) RemoveExclusion(ctx context.Context, programID int, name string) error {
	return r.execOne(ctx, `DELETE FROM exclusions WHERE program_id = ? AND name = ?`, programID, name)
}

// ClearExclusions removes all exclusions of a program
func (r *Repository) ClearExclusions(ctx context.Context, programID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM exclusions WHERE program_id = ?`, programID)
	return err
}

// ==================== Ladder Label Methods ====================

// ListLadderLabels returns the configured outcome labels in order
func (r *Repository) ListLadderLabels(ctx context.Context, programID int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT label FROM ladder_labels WHERE program_id = ? ORDER BY position`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// SetLadderLabels replaces the outcome labels of a program
func (r *Repository) SetLadderLabels(ctx context.Context, programID int, labels []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ladder_labels WHERE program_id = ?`, programID); err != nil {
		return err
	}
	for i, label := range labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ladder_labels (program_id, position, label) VALUES (?, ?, ?)`, programID, i, label); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ==================== History Methods ====================

// ListHistory returns a program's history, newest first
func (r *Repository) ListHistory(ctx context.Context, programID int) ([]models.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, program_id, game, name, drawn_at
		FROM history
		WHERE program_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, programID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		var drawnAt int64
		if err := rows.Scan(&e.ID, &e.ProgramID, &e.Game, &e.Name, &drawnAt); err != nil {
			return nil, err
		}
		e.DrawnAt = time.UnixMilli(drawnAt).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddHistory prepends entries (in the given order) and trims the program's history
// to HistoryLimit
func (r *Repository) AddHistory(ctx context.Context, programID int, game string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	drawnAt := r.now().UnixMilli()
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO history (program_id, game, name, drawn_at) VALUES (?, ?, ?, ?)`,
			programID, game, name, drawnAt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM history
		WHERE program_id = ? AND id NOT IN (
			SELECT id FROM history WHERE program_id = ? ORDER BY id DESC LIMIT ?
		)
	`, programID, programID, HistoryLimit); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearHistory deletes a program's history
func (r *Repository) ClearHistory(ctx context.Context, programID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE program_id = ?`, programID)
	return err
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ListSettings returns every stored setting
func (r *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// ==================== Stats Methods ====================

// GetStats returns overall counts
func (r *Repository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts := []struct {
		key   string
		query string
	}{
		{"total_programs", `SELECT COUNT(*) FROM programs`},
		{"total_participants", `SELECT COUNT(*) FROM participants`},
		{"total_history", `SELECT COUNT(*) FROM history`},
	}
	for _, c := range counts {
		var n int
		if err := r.db.QueryRowContext(ctx, c.query).Scan(&n); err != nil {
			return nil, err
		}
		stats[c.key] = n
	}
	return stats, nil
}
