package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

// splitBillRepository implements domain.SplitBillRepository
type splitBillRepository struct {
	db *DB
}

// NewSplitBillRepository creates a new split bill repository
func NewSplitBillRepository(db *DB) domain.SplitBillRepository {
	return &splitBillRepository{db: db}
}

const selectSplitBill = `
	SELECT id, title, category_id, date, notes, group_id, payer_id, total_amount, split_type, created_at
	FROM split_bills
`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Create creates a new split bill with all its participants in a database transaction
func (r *splitBillRepository) Create(ctx context.Context, bill *domain.SplitBill) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertBillQuery := `
		INSERT INTO split_bills (id, title, category_id, date, notes, group_id, payer_id, total_amount, split_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var categoryID, groupID interface{}
	if bill.CategoryID != nil {
		categoryID = *bill.CategoryID
	}
	if bill.GroupID != nil {
		groupID = *bill.GroupID
	}

	_, err = dbTx.ExecContext(ctx, insertBillQuery,
		bill.ID,
		bill.Title,
		categoryID,
		bill.Date,
		bill.Notes,
		groupID,
		bill.PayerID,
		bill.TotalAmount.String(),
		string(bill.SplitType),
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split bill: %w", err)
	}

	insertParticipantQuery := `
		INSERT INTO split_bill_participants (split_bill_id, participant_id, position, amount)
		VALUES ($1, $2, $3, $4)
	`

	for i, p := range bill.Participants {
		_, err = dbTx.ExecContext(ctx, insertParticipantQuery,
			bill.ID,
			p.ParticipantID,
			i,
			p.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split bill participant: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a split bill and its participants by ID
func (r *splitBillRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SplitBill, error) {
	row := r.db.QueryRowContext(ctx, selectSplitBill+` WHERE id = $1`, id)

	bill, err := scanSplitBill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("split bill %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get split bill by ID: %w", err)
	}

	if err := r.loadParticipants(ctx, []*domain.SplitBill{bill}); err != nil {
		return nil, err
	}

	return bill, nil
}

// List retrieves a paginated list of split bills, newest first
func (r *splitBillRepository) List(ctx context.Context, limit, offset int, groupID *uuid.UUID) ([]*domain.SplitBill, error) {
	var rows *sql.Rows
	var err error

	if groupID != nil {
		rows, err = r.db.QueryContext(ctx,
			selectSplitBill+` WHERE group_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
			*groupID, limit, offset)
	} else {
		rows, err = r.db.QueryContext(ctx,
			selectSplitBill+` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query split bills: %w", err)
	}
	defer rows.Close()

	bills := make([]*domain.SplitBill, 0)
	for rows.Next() {
		bill, err := scanSplitBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split bill: %w", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating split bills: %w", err)
	}

	if err := r.loadParticipants(ctx, bills); err != nil {
		return nil, err
	}

	return bills, nil
}

// Count returns the number of split bills, optionally restricted to a group
func (r *splitBillRepository) Count(ctx context.Context, groupID *uuid.UUID) (int, error) {
	var count int
	var err error

	if groupID != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM split_bills WHERE group_id = $1`, *groupID).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM split_bills`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count split bills: %w", err)
	}

	return count, nil
}

// loadParticipants fills Participants for every bill with one query, in stored order
func (r *splitBillRepository) loadParticipants(ctx context.Context, bills []*domain.SplitBill) error {
	if len(bills) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.SplitBill, len(bills))
	ids := make([]string, 0, len(bills))
	for _, bill := range bills {
		byID[bill.ID] = bill
		ids = append(ids, bill.ID.String())
	}

	query := `
		SELECT split_bill_id, participant_id, amount
		FROM split_bill_participants
		WHERE split_bill_id = ANY($1::uuid[])
		ORDER BY split_bill_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query split bill participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var billID uuid.UUID
		var p domain.SplitParticipant
		var amountStr string

		if err := rows.Scan(&billID, &p.ParticipantID, &amountStr); err != nil {
			return fmt.Errorf("failed to scan split bill participant: %w", err)
		}

		// Parse amount (DECIMAL)
		amount, err := domain.ParseMoney(amountStr)
		if err != nil {
			return fmt.Errorf("failed to parse participant amount: %w", err)
		}
		p.Amount = amount

		if bill, ok := byID[billID]; ok {
			bill.Participants = append(bill.Participants, p)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating split bill participants: %w", err)
	}

	return nil
}

func scanSplitBill(row rowScanner) (*domain.SplitBill, error) {
	var bill domain.SplitBill
	var categoryID, groupID uuid.NullUUID
	var totalStr string
	var splitType string

	err := row.Scan(
		&bill.ID,
		&bill.Title,
		&categoryID,
		&bill.Date,
		&bill.Notes,
		&groupID,
		&bill.PayerID,
		&totalStr,
		&splitType,
		&bill.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := categoryID.UUID
		bill.CategoryID = &id
	}
	if groupID.Valid {
		id := groupID.UUID
		bill.GroupID = &id
	}

	// Parse total_amount (DECIMAL)
	total, err := domain.ParseMoney(totalStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total_amount: %w", err)
	}
	bill.TotalAmount = total
	bill.SplitType = domain.SplitType(splitType)
	bill.Participants = make([]domain.SplitParticipant, 0)

	return &bill, nil
}
