package mysql

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"

	"hotel_proxy/internal/domain"
)

// maxDetail caps the stored supplier body; the column is TEXT.
const maxDetail = 16 << 10

// Journal records supplier calls that failed, keyed by their correlation id so
// they can be matched against the supplier's own logs.
type Journal struct{ db *sql.DB }

func New(db *sql.DB) *Journal { return &Journal{db: db} }

func valDetail(s string) any {
	if s == "" {
		return nil
	}
	if len(s) <= maxDetail {
		return s
	}
	// back off to a rune boundary so the cut stays valid utf8mb4
	n := maxDetail
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (j *Journal) LogFailure(ctx context.Context, f domain.UpstreamFailure) error {
	at := f.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx, insertFailureSQL,
		f.Operation,
		f.Status,
		f.SessionID,
		f.CorrelationID,
		valDetail(f.Detail),
		at,
	)
	return err
}

func (j *Journal) RecentFailures(ctx context.Context, operation string, limit int) ([]domain.UpstreamFailure, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, recentFailuresSQL, operation, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UpstreamFailure
	for rows.Next() {
		var f domain.UpstreamFailure
		if err := rows.Scan(&f.Operation, &f.Status, &f.SessionID, &f.CorrelationID, &f.Detail, &f.At); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
