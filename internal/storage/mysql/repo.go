package mysql

import (
	"context"
	"database/sql"

	"idx_pro/internal/domain"
)

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveLead(ctx context.Context, l domain.Lead) error {
	_, err := r.db.ExecContext(ctx, insertLeadSQL,
		l.ID,
		l.Name,
		l.Email,
		l.Phone,
		l.Message,
		nullable(l.PropertyID),
		nullable(l.Type),
	)
	return err
}

func (r *Repo) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	row := r.db.QueryRowContext(ctx, getLeadSQL, id)

	var l domain.Lead
	var propertyID, leadType sql.NullString
	if err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, &propertyID, &leadType); err != nil {
		return domain.Lead{}, err
	}
	l.PropertyID = propertyID.String
	l.Type = leadType.String
	return l, nil
}
