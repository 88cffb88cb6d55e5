package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/core/schedule"
)

type cartRow struct {
	StudentID   string       `db:"student_id"`
	Sections    []byte       `db:"sections"` // JSON encoded schedule.Selection
	Status      string       `db:"status"`
	Reference   string       `db:"reference"`
	SubmittedAt sql.NullTime `db:"submitted_at"`
	ReviewedAt  sql.NullTime `db:"reviewed_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func newCartRow(c registration.Cart) (cartRow, error) {
	sel := c.Sections
	if sel == nil {
		sel = schedule.Selection{}
	}
	data, err := json.Marshal(sel)
	if err != nil {
		return cartRow{}, errors.Wrap(err, "encoding sections")
	}
	return cartRow{
		StudentID:   c.StudentID,
		Sections:    data,
		Status:      string(c.Status),
		Reference:   c.Reference,
		SubmittedAt: nullTime(c.SubmittedAt),
		ReviewedAt:  nullTime(c.ReviewedAt),
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

func (r cartRow) cart() (registration.Cart, error) {
	sel := schedule.Selection{}
	if err := json.Unmarshal(r.Sections, &sel); err != nil {
		// a cart that cannot be read back means the table was written by something else
		msg := fmt.Sprintf("corrupt sections for student %s: %v", r.StudentID, err)
		return registration.Cart{}, errors.Wrap(core.NewShutdownError(msg), "decoding sections")
	}
	return registration.Cart{
		StudentID:   r.StudentID,
		Sections:    sel,
		Status:      registration.Status(r.Status),
		Reference:   r.Reference,
		SubmittedAt: timePtr(r.SubmittedAt),
		ReviewedAt:  timePtr(r.ReviewedAt),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}, nil
}

type cartRepository struct {
	db *sqlx.DB
}

func NewCartRepository(db *sqlx.DB) registration.Repository {
	return &cartRepository{db: db}
}

func (repo *cartRepository) GetCart(ctx context.Context, studentID string) (registration.Cart, error) {
	var row cartRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM cart WHERE student_id = $1`, studentID); err != nil {
		if err == sql.ErrNoRows {
			return registration.Cart{}, registration.ErrNotFound
		}
		return registration.Cart{}, errors.Wrap(err, "selecting cart")
	}
	return row.cart()
}

const upsertCart = `INSERT INTO cart (student_id, sections, status, reference, submitted_at, reviewed_at, updated_at)
	VALUES (:student_id, :sections, :status, :reference, :submitted_at, :reviewed_at, :updated_at)
	ON CONFLICT (student_id) DO UPDATE SET
		sections = EXCLUDED.sections,
		status = EXCLUDED.status,
		reference = EXCLUDED.reference,
		submitted_at = EXCLUDED.submitted_at,
		reviewed_at = EXCLUDED.reviewed_at,
		updated_at = EXCLUDED.updated_at`

func (repo *cartRepository) SaveCart(ctx context.Context, cart registration.Cart) (registration.Cart, error) {
	row, err := newCartRow(cart)
	if err != nil {
		return registration.Cart{}, err
	}
	if _, err := repo.db.NamedExecContext(ctx, upsertCart, row); err != nil {
		return registration.Cart{}, errors.Wrap(err, "upserting cart")
	}
	return cart, nil
}

func (repo *cartRepository) QueryCarts(ctx context.Context, status registration.Status) ([]registration.Cart, error) {
	q := `SELECT * FROM cart`
	var args []interface{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY submitted_at ASC NULLS FIRST, student_id ASC`

	var rows []cartRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting carts")
	}
	carts := make([]registration.Cart, 0, len(rows))
	for _, r := range rows {
		c, err := r.cart()
		if err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	return carts, nil
}
