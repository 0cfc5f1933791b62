package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"kindra/application/ports"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	pkgerrors "kindra/pkg/errors"
)

// MomentRepository implements ports.MomentRepository on SQLite
type MomentRepository struct {
	db *DB
}

// NewMomentRepository creates a moment repository over db
func NewMomentRepository(db *DB) *MomentRepository {
	return &MomentRepository{db: db}
}

const momentColumns = `id, user_id, connection_id, emoji, tags, content, is_intimate,
	is_resolved, resolution_notes, related_to_menstrual_cycle, created_at`

// Save inserts or replaces a moment
func (r *MomentRepository) Save(ctx context.Context, moment *entities.Moment) error {
	s := moment.Snapshot()
	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = r.db.db.ExecContext(ctx, `
		INSERT INTO moments (`+momentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_resolved = excluded.is_resolved,
			resolution_notes = excluded.resolution_notes,
			tags = excluded.tags,
			content = excluded.content`,
		s.ID, s.UserID, s.ConnectionID, s.Emoji, string(tags), s.Content, s.IsIntimate,
		s.IsResolved, s.ResolutionNotes, s.RelatedToMenstrualCycle, formatTime(s.CreatedAt),
	)
	if err != nil {
		return pkgerrors.NewDatabaseError("save moment", err)
	}
	return nil
}

// GetByID loads one of the user's moments
func (r *MomentRepository) GetByID(ctx context.Context, userID string, id valueobjects.MomentID) (*entities.Moment, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT `+momentColumns+` FROM moments WHERE id = ? AND user_id = ?`,
		id.String(), userID,
	)
	m, err := scanMoment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrMomentNotFound(id.String())
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get moment", err)
	}
	return m, nil
}

// ListByUser returns the user's moments oldest first
func (r *MomentRepository) ListByUser(ctx context.Context, userID string, filter ports.MomentFilter) ([]*entities.Moment, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if filter.ConnectionID != "" {
		where = append(where, "connection_id = ?")
		args = append(args, filter.ConnectionID)
	}
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(filter.Since))
	}

	// Newest first so LIMIT keeps the most recent moments
	query := `SELECT ` + momentColumns + ` FROM moments WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list moments", err)
	}
	defer rows.Close()

	var moments []*entities.Moment
	for rows.Next() {
		m, err := scanMoment(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list moments", err)
		}
		moments = append(moments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list moments", err)
	}

	slices.Reverse(moments)
	return moments, nil
}

// Delete removes one of the user's moments
func (r *MomentRepository) Delete(ctx context.Context, userID string, id valueobjects.MomentID) error {
	res, err := r.db.db.ExecContext(ctx, `DELETE FROM moments WHERE id = ? AND user_id = ?`, id.String(), userID)
	if err != nil {
		return pkgerrors.NewDatabaseError("delete moment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgerrors.ErrMomentNotFound(id.String())
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMoment(row scanner) (*entities.Moment, error) {
	var (
		s         entities.MomentSnapshot
		tags      string
		createdAt string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.ConnectionID, &s.Emoji, &tags, &s.Content, &s.IsIntimate,
		&s.IsResolved, &s.ResolutionNotes, &s.RelatedToMenstrualCycle, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of moment %s: %w", s.ID, err)
	}
	s.CreatedAt = parseTime(createdAt)
	return entities.ReconstructMoment(s)
}

// ConnectionRepository implements ports.ConnectionRepository on SQLite
type ConnectionRepository struct {
	db *DB
}

// NewConnectionRepository creates a connection repository over db
func NewConnectionRepository(db *DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

const connectionColumns = `id, user_id, name, relationship_stage, zodiac_sign, love_language, created_at`

func (r *ConnectionRepository) Save(ctx context.Context, connection *entities.Connection) error {
	s := connection.Snapshot()
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO connections (`+connectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			relationship_stage = excluded.relationship_stage,
			zodiac_sign = excluded.zodiac_sign,
			love_language = excluded.love_language`,
		s.ID, s.UserID, s.Name, string(s.RelationshipStage), string(s.ZodiacSign), string(s.LoveLanguage),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return pkgerrors.NewDatabaseError("save connection", err)
	}
	return nil
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id valueobjects.ConnectionID) (*entities.Connection, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = ?`, id.String())
	c, err := scanConnection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrConnectionNotFound(id.String())
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get connection", err)
	}
	return c, nil
}

func (r *ConnectionRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Connection, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE user_id = ? ORDER BY created_at, rowid`, userID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list connections", err)
	}
	defer rows.Close()

	var out []*entities.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list connections", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list connections", err)
	}
	return out, nil
}

func (r *ConnectionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, pkgerrors.NewDatabaseError("count connections", err)
	}
	return n, nil
}

func scanConnection(row scanner) (*entities.Connection, error) {
	var (
		s                          entities.ConnectionSnapshot
		stage, sign, lang, created string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &stage, &sign, &lang, &created); err != nil {
		return nil, err
	}
	s.RelationshipStage = valueobjects.RelationshipStage(stage)
	s.ZodiacSign = valueobjects.ZodiacSign(sign)
	s.LoveLanguage = valueobjects.LoveLanguage(lang)
	s.CreatedAt = parseTime(created)
	return entities.ReconstructConnection(s)
}

// ProfileRepository implements ports.ProfileRepository on SQLite
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a profile repository over db
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*entities.Profile, error) {
	var sign, lang, updated string
	err := r.db.db.QueryRowContext(ctx,
		`SELECT zodiac_sign, love_language, updated_at FROM profiles WHERE user_id = ?`, userID,
	).Scan(&sign, &lang, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("profile")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get profile", err)
	}
	return entities.ReconstructProfile(entities.ProfileSnapshot{
		UserID:       userID,
		ZodiacSign:   valueobjects.ZodiacSign(sign),
		LoveLanguage: valueobjects.LoveLanguage(lang),
		UpdatedAt:    parseTime(updated),
	}), nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *entities.Profile) error {
	s := profile.Snapshot()
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, zodiac_sign, love_language, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			zodiac_sign = excluded.zodiac_sign,
			love_language = excluded.love_language,
			updated_at = excluded.updated_at`,
		s.UserID, string(s.ZodiacSign), string(s.LoveLanguage), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return pkgerrors.NewDatabaseError("save profile", err)
	}
	return nil
}

var (
	_ ports.MomentRepository     = (*MomentRepository)(nil)
	_ ports.ConnectionRepository = (*ConnectionRepository)(nil)
	_ ports.ProfileRepository    = (*ProfileRepository)(nil)
)
