package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"stayscout/internal/domain"
)

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the run tables when they are missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range SchemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) InsertRun(ctx context.Context, run domain.Run) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRunSQL, run.Locality, run.Query)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) InsertLinks(ctx context.Context, runID int64, links []domain.LinkedHotel) error {
	if len(links) == 0 {
		return nil
	}
	values := make([]string, 0, len(links))
	args := make([]any, 0, len(links)*6)
	for _, l := range links {
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args,
			runID,
			l.Offering.ID,
			nullStr(l.HotelID),
			l.Score,
			nullStr(l.Offering.Name),
			nullStr(l.HotelName),
		)
	}
	_, err := r.db.ExecContext(ctx, insertLinksPrefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) InsertResults(ctx context.Context, runID int64, results []domain.RankedHotel) error {
	if len(results) == 0 {
		return nil
	}
	values := make([]string, 0, len(results))
	args := make([]any, 0, len(results)*8)
	for i, h := range results {
		var points any
		if len(h.KeyPoints) > 0 {
			b, err := json.Marshal(h.KeyPoints)
			if err == nil {
				points = string(b)
			}
		}
		var total, currency any
		if h.Price != nil {
			total, currency = h.Price.Total, h.Price.Currency
		}
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args, runID, i+1, h.HotelID, nullStr(h.Name), h.Score, points, total, currency)
	}
	_, err := r.db.ExecContext(ctx, insertRankedPrefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) LatestRun(ctx context.Context) (domain.Run, error) {
	var run domain.Run
	err := r.db.QueryRowContext(ctx, latestRunSQL).
		Scan(&run.ID, &run.Locality, &run.Query, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.Run{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Run{}, err
	}
	return run, nil
}

func (r *Repo) RunResults(ctx context.Context, runID int64) ([]domain.RankedHotel, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, runExistsSQL, runID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, runResultsSQL, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.RankedHotel, 0, 16)
	for rows.Next() {
		var h domain.RankedHotel
		var name, total, currency sql.NullString
		var points []byte
		if err := rows.Scan(&h.HotelID, &name, &h.Score, &points, &total, &currency); err != nil {
			return nil, err
		}
		h.Name = name.String
		if len(points) > 0 {
			// tolerate hand-edited rows: bad JSON just drops the points
			_ = json.Unmarshal(points, &h.KeyPoints)
		}
		if total.Valid {
			h.Price = &domain.PriceQuote{Total: total.String, Currency: currency.String}
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
