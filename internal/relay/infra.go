package relay

import (
	"context"
	"database/sql"
)

// pgArchive logs relayed traffic to Postgres. Expected table:
//
//	relay_messages (
//	    id            bigserial primary key,
//	    correspondent text not null,
//	    direction     text not null,
//	    action        text not null,
//	    text          text not null,
//	    created_at    timestamptz not null default now()
//	)
type pgArchive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) Archive {
	return &pgArchive{db: db}
}

func (a *pgArchive) Record(ctx context.Context, e ArchiveEntry) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO relay_messages (correspondent, direction, action, text)
		VALUES ($1, $2, $3, $4)
	`,
		string(e.Correspondent),
		string(e.Direction),
		e.Action,
		e.Text,
	)
	return err
}

func (a *pgArchive) Recent(ctx context.Context, limit int) ([]ArchiveEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT correspondent, direction, action, text, created_at
		FROM relay_messages
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchiveEntry
	for rows.Next() {
		var e ArchiveEntry
		var correspondent, direction string
		if err := rows.Scan(
			&correspondent,
			&direction,
			&e.Action,
			&e.Text,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Correspondent = CorrespondentID(correspondent)
		e.Direction = Direction(direction)
		out = append(out, e)
	}

	return out, rows.Err()
}
