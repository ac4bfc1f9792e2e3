package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/jose-valero/soundboard-bot/internal/domain"
)

var (
	ErrNotFound        = domain.ErrNotFound
	ErrAlreadyAssigned = errors.New("sound already assigned to a message")
)

type SoundRepo struct{ db *sql.DB }

func NewSoundRepo(db *sql.DB) *SoundRepo { return &SoundRepo{db: db} }

const soundColumns = `id, custom_id, filename, size, added_by, message_id`

func scanSound(row interface{ Scan(...any) error }) (domain.Sound, error) {
	var s domain.Sound
	var msg sql.NullString
	if err := row.Scan(&s.ID, &s.CustomID, &s.Filename, &s.Size, &s.AddedBy, &msg); err != nil {
		return domain.Sound{}, err
	}
	if msg.Valid {
		m := msg.String
		s.MessageID = &m
	}
	return s, nil
}

// LoadAll devuelve todo el catálogo en orden de inserción (id ASC).
func (r *SoundRepo) LoadAll(ctx context.Context) ([]domain.Sound, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+soundColumns+`
  FROM sound
 ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sound
	for rows.Next() {
		s, err := scanSound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Insert persiste un sonido nuevo con message_id = NULL y lo devuelve hidratado.
func (r *SoundRepo) Insert(ctx context.Context, customID, filename string, size int64, addedBy string) (domain.Sound, error) {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO sound (custom_id, filename, size, added_by)
VALUES ($1,$2,$3,$4)
RETURNING `+soundColumns,
		customID, filename, size, addedBy,
	)
	s, err := scanSound(row)
	if err != nil {
		return domain.Sound{}, fmt.Errorf("insert sound %q: %w", filename, err)
	}
	return s, nil
}

// AssignToMessage setea message_id para todos los ids, todo o nada.
// Sólo pasa de NULL a un valor; si alguna fila ya estaba asignada se hace rollback.
func (r *SoundRepo) AssignToMessage(ctx context.Context, soundIDs []int64, messageID string) (err error) {
	if len(soundIDs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
UPDATE sound
   SET message_id = $1
 WHERE id = ANY($2)
   AND message_id IS NULL
`, messageID, pq.Array(soundIDs))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(soundIDs)) {
		return fmt.Errorf("assign %d sounds to %s (updated %d): %w", len(soundIDs), messageID, n, ErrAlreadyAssigned)
	}
	return tx.Commit()
}

func (r *SoundRepo) ExistsCustomID(ctx context.Context, customID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sound WHERE custom_id = $1)`, customID).Scan(&ok)
	return ok, err
}

func (r *SoundRepo) GetByCustomID(ctx context.Context, customID string) (domain.Sound, error) {
	s, err := scanSound(r.db.QueryRowContext(ctx, `
SELECT `+soundColumns+`
  FROM sound
 WHERE custom_id = $1
 ORDER BY id ASC
 LIMIT 1
`, customID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sound{}, ErrNotFound
	}
	return s, err
}
