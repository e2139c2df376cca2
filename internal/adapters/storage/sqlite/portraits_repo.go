package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"soul-portrait/internal/domain/portraits"
)

type PortraitsRepo struct {
	db *sql.DB
}

func NewPortraitsRepo(db *sql.DB) *PortraitsRepo {
	return &PortraitsRepo{db: db}
}

func (r *PortraitsRepo) Insert(ctx context.Context, p portraits.SavedPortrait) error {
	analysis, err := json.Marshal(p.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO portraits (
			id, first_name, last_name,
			birth_date, birth_time, birth_place,
			image_url, analysis, created_at
		) VALUES (?,?,?,?,?,?,?,?,?)
	`,
		p.ID,
		p.BirthData.FirstName,
		p.BirthData.LastName,
		p.BirthData.BirthDate,
		p.BirthData.BirthTime,
		p.BirthData.BirthPlace,
		p.ImageURL,
		string(analysis),
		p.CreatedAt,
	)
	return err
}

func (r *PortraitsRepo) FindByIdentity(ctx context.Context, key portraits.IdentityKey) (portraits.SavedPortrait, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, birth_date, birth_time, birth_place,
		       image_url, analysis, created_at
		FROM portraits
		WHERE first_name = ? AND last_name = ? AND birth_date = ?
		  AND birth_time = ? AND birth_place = ?
		LIMIT 1
	`,
		key.FirstName, key.LastName, key.BirthDate, key.BirthTime, key.BirthPlace,
	)

	p, err := scanPortrait(row)
	if err == sql.ErrNoRows {
		return portraits.SavedPortrait{}, false, nil
	}
	if err != nil {
		return portraits.SavedPortrait{}, false, err
	}
	return p, true, nil
}

func (r *PortraitsRepo) List(ctx context.Context) ([]portraits.SavedPortrait, error) {
	// rowid preserva el orden de inserción aunque dos filas compartan
	// created_at
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, birth_date, birth_time, birth_place,
		       image_url, analysis, created_at
		FROM portraits
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]portraits.SavedPortrait, 0)
	for rows.Next() {
		p, err := scanPortrait(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PortraitsRepo) Delete(ctx context.Context, id string) error {
	// sin chequeo de RowsAffected: borrar un id inexistente es no-op
	_, err := r.db.ExecContext(ctx, `DELETE FROM portraits WHERE id = ?`, id)
	return err
}

func (r *PortraitsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portraits`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPortrait(row scanner) (portraits.SavedPortrait, error) {
	var p portraits.SavedPortrait
	var analysis string

	if err := row.Scan(
		&p.ID,
		&p.BirthData.FirstName,
		&p.BirthData.LastName,
		&p.BirthData.BirthDate,
		&p.BirthData.BirthTime,
		&p.BirthData.BirthPlace,
		&p.ImageURL,
		&analysis,
		&p.CreatedAt,
	); err != nil {
		return portraits.SavedPortrait{}, err
	}

	// Filas viejas pueden traer un analysis con menos campos; el service
	// normaliza al salir, acá solo decodificamos.
	if err := json.Unmarshal([]byte(analysis), &p.Analysis); err != nil {
		return portraits.SavedPortrait{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return p, nil
}
