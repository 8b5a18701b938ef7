package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cruisewatch/internal/domain"
)

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func tableFor(p domain.Provider) (string, error) {
	switch p {
	case domain.ProviderPO:
		return "po_fares", nil
	case domain.ProviderPrincess:
		return "princess_fares", nil
	}
	return "", fmt.Errorf("unknown provider %q", p)
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, p := range []domain.Provider{domain.ProviderPO, domain.ProviderPrincess} {
		table, _ := tableFor(p)
		if _, err := r.db.ExecContext(ctx, fmt.Sprintf(createFaresTableSQL, table)); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

func (r *Repo) InsertQuotes(ctx context.Context, p domain.Provider, qs []domain.FareQuote) error {
	if len(qs) == 0 {
		return nil
	}
	table, err := tableFor(p)
	if err != nil {
		return err
	}

	values := make([]string, 0, len(qs))
	args := make([]any, 0, len(qs)*14)
	for _, q := range qs {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			q.DateChecked,
			q.CruiseCode,
			q.CruiseName,
			q.ShipName,
			q.DeparturePort,
			q.DepartureDate,
			valInt(q.Duration),
			q.CabinType,
			q.FareType,
			q.CabinPrice,
			q.FixedOBC,
			q.BonusOBC,
			q.TotalPrice,
			valF64(q.DrinksPrice),
		)
	}
	sqlStr := fmt.Sprintf(insertFaresPrefix, table) + strings.Join(values, ",")
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ListQuotes(ctx context.Context, p domain.Provider) ([]domain.FareQuote, error) {
	table, err := tableFor(p)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(listFaresSQL, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FareQuote
	for rows.Next() {
		var q domain.FareQuote
		var duration sql.NullInt64
		var drinks sql.NullFloat64
		if err := rows.Scan(
			&q.DateChecked,
			&q.CruiseCode,
			&q.CruiseName,
			&q.ShipName,
			&q.DeparturePort,
			&q.DepartureDate,
			&duration,
			&q.CabinType,
			&q.FareType,
			&q.CabinPrice,
			&q.FixedOBC,
			&q.BonusOBC,
			&q.TotalPrice,
			&drinks,
		); err != nil {
			return nil, err
		}
		if duration.Valid {
			d := int(duration.Int64)
			q.Duration = &d
		}
		if drinks.Valid {
			f := drinks.Float64
			q.DrinksPrice = &f
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
