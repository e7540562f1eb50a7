package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"campaign-recommendation/internal/campaign"
)

// Store is a PostgreSQL-backed campaign store for deployments that want the
// catalog to survive restarts. Structured fields (targeting, products,
// variation) are stored as JSONB; the name carries a unique constraint that
// backs the duplicate-name rule.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

func (s *Store) Create(ctx context.Context, c *campaign.Campaign) error {
	targeting, products, variation, err := marshalFields(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO campaigns (id, name, objective, category, notes, targeting, products, variation, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Objective, c.Category, c.Notes, targeting, products, variation, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return campaign.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*campaign.Campaign, error) {
	return s.getWhere(ctx, "id = $1", id)
}

func (s *Store) GetByName(ctx context.Context, name string) (*campaign.Campaign, error) {
	return s.getWhere(ctx, "name = $1", name)
}

func (s *Store) getWhere(ctx context.Context, cond string, arg any) (*campaign.Campaign, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM campaigns WHERE `+cond, arg)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (s *Store) List(ctx context.Context, f campaign.ListFilter) ([]campaign.Campaign, int, error) {
	where := " WHERE 1=1"
	var args []any
	idx := 1

	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if !f.Wildcard() {
		where += fmt.Sprintf(" AND LOWER(category) = LOWER($%d)", idx)
		args = append(args, f.Category)
		idx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaigns"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	query := selectColumns + ` FROM campaigns` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, f.Limit, f.Offset)
	} else if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", idx)
		args = append(args, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []campaign.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	return out, total, nil
}

// Update reads the row, applies the partial fields in Go and writes the
// merged campaign back inside one transaction, so concurrent updates of the
// same id cannot interleave. id and created_at are never part of the SET.
func (s *Store) Update(ctx context.Context, id string, u campaign.UpdateFields) (*campaign.Campaign, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectColumns+` FROM campaigns WHERE id = $1 FOR UPDATE`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load campaign for update: %w", err)
	}

	applyUpdate(c, u)
	c.UpdatedAt = time.Now().UTC()

	targeting, products, variation, err := marshalFields(c)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE campaigns
		SET name=$1, objective=$2, category=$3, notes=$4, targeting=$5, products=$6, variation=$7, status=$8, updated_at=$9
		WHERE id=$10
	`, c.Name, c.Objective, c.Category, c.Notes, targeting, products, variation, c.Status, c.UpdatedAt, id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, campaign.ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id string) (*campaign.Campaign, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, campaign.ErrNotFound
	}
	return c, nil
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM campaigns`)
	if err != nil {
		return 0, fmt.Errorf("clear campaigns: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

const selectColumns = `SELECT id, name, objective, category, COALESCE(notes, ''), targeting, products, variation, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*campaign.Campaign, error) {
	c := &campaign.Campaign{}
	var targeting, products, variation []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Objective, &c.Category, &c.Notes,
		&targeting, &products, &variation, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(targeting) > 0 {
		if err := json.Unmarshal(targeting, &c.Targeting); err != nil {
			return nil, fmt.Errorf("decode targeting: %w", err)
		}
	}
	if len(products) > 0 {
		if err := json.Unmarshal(products, &c.Products); err != nil {
			return nil, fmt.Errorf("decode products: %w", err)
		}
	}
	if len(variation) > 0 {
		var v campaign.Variation
		if err := json.Unmarshal(variation, &v); err != nil {
			return nil, fmt.Errorf("decode variation: %w", err)
		}
		c.Variation = &v
	}
	return c, nil
}

func marshalFields(c *campaign.Campaign) (targeting, products, variation []byte, err error) {
	if targeting, err = json.Marshal(c.Targeting); err != nil {
		return nil, nil, nil, fmt.Errorf("encode targeting: %w", err)
	}
	if products, err = json.Marshal(c.Products); err != nil {
		return nil, nil, nil, fmt.Errorf("encode products: %w", err)
	}
	if c.Variation != nil {
		if variation, err = json.Marshal(c.Variation); err != nil {
			return nil, nil, nil, fmt.Errorf("encode variation: %w", err)
		}
	}
	return targeting, products, variation, nil
}

func applyUpdate(c *campaign.Campaign, u campaign.UpdateFields) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Objective != nil {
		c.Objective = *u.Objective
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.Targeting != nil {
		c.Targeting = *u.Targeting
	}
	if u.Products != nil {
		c.Products = *u.Products
	}
	if u.Variation != nil {
		v := *u.Variation
		c.Variation = &v
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
}
