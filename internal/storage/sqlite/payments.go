package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
)

// CreatePayment appends a payment record against a split. Payments are
// never updated or deleted; outstanding amounts are always derived.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments (id, split_id, payer, amount, created_at) VALUES (?, ?, ?, ?, ?)",
		payment.ID, payment.SplitID, payment.Payer, int64(payment.Amount), payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// FetchPayments returns all payments against the given splits, ordered by
// created_at then ID.
func (s *SQLiteStore) FetchPayments(ctx context.Context, splitIDs []string) ([]*models.Payment, error) {
	if len(splitIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(splitIDs))
	for i, id := range splitIDs {
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT id, split_id, payer, amount, created_at FROM payments WHERE split_id IN (%s) ORDER BY created_at, id",
		placeholders(len(splitIDs)),
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		var payer string
		var amount int64
		if err := rows.Scan(&payment.ID, &payment.SplitID, &payer, &amount, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payment.Payer = models.Wallet(payer)
		payment.Amount = money.Money(amount)
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
