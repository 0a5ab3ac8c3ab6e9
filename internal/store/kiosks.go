package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"print-kiosk-backend/internal/models"
)

// ListKiosksOptions filters and pages the fleet listing.
type ListKiosksOptions struct {
	Status string
	Search string
	Page   int
	Limit  int
}

const kioskColumns = `kiosk_id, username, location_name, address, status, owner_email, owner_phone, device_id,
	printer_model, printer_status, pricing_color_per_page, pricing_bw_per_page,
	stats_total_revenue, stats_total_transactions, stats_total_pages, stats_last_transaction_at,
	created_at, updated_at`

func (s *Store) CreateKiosk(ctx context.Context, k *models.Kiosk) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO kiosks (kiosk_id, username, location_name, address, status, owner_email, owner_phone, device_id,
			printer_model, printer_status, pricing_color_per_page, pricing_bw_per_page)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, k.KioskID, k.Username, k.LocationName, k.Address, k.Status, k.OwnerEmail, k.OwnerPhone, k.DeviceID,
		k.PrinterModel, k.PrinterStatus, k.Pricing.ColorPerPage, k.Pricing.BWPerPage).Scan(&k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert kiosk: %w", err)
	}
	return nil
}

func (s *Store) GetKiosk(ctx context.Context, kioskID string) (*models.Kiosk, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+kioskColumns+` FROM kiosks WHERE kiosk_id = $1`, kioskID)
	k, err := scanKiosk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKioskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kiosk: %w", err)
	}
	return k, nil
}

func (s *Store) ListKiosks(ctx context.Context, opts ListKiosksOptions) ([]models.Kiosk, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 50
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Status != "" {
		args = append(args, opts.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where += fmt.Sprintf(" AND (username ILIKE $%d OR location_name ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kiosks "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count kiosks: %w", err)
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query := fmt.Sprintf(`SELECT %s FROM kiosks %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		kioskColumns, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list kiosks: %w", err)
	}
	defer rows.Close()

	var kiosks []models.Kiosk
	for rows.Next() {
		k, err := scanKiosk(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan kiosk: %w", err)
		}
		kiosks = append(kiosks, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read kiosks: %w", err)
	}

	return kiosks, total, nil
}

// UpdateKiosk applies the non-nil fields of req to a kiosk.
func (s *Store) UpdateKiosk(ctx context.Context, kioskID string, req *models.UpdateKioskRequest) error {
	set := "updated_at = NOW()"
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if req.Username != nil {
		add("username", *req.Username)
	}
	if req.LocationName != nil {
		add("location_name", *req.LocationName)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.OwnerEmail != nil {
		add("owner_email", *req.OwnerEmail)
	}
	if req.OwnerPhone != nil {
		add("owner_phone", *req.OwnerPhone)
	}
	if req.PrinterModel != nil {
		add("printer_model", *req.PrinterModel)
	}
	if req.PrinterStatus != nil {
		add("printer_status", *req.PrinterStatus)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Pricing != nil {
		add("pricing_color_per_page", req.Pricing.ColorPerPage)
		add("pricing_bw_per_page", req.Pricing.BWPerPage)
	}

	args = append(args, kioskID)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE kiosks SET %s WHERE kiosk_id = $%d", set, len(args)), args...)
	if err != nil {
		return fmt.Errorf("failed to update kiosk: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrKioskNotFound
	}
	return nil
}

// DeactivateKiosk soft-deletes a kiosk by marking it INACTIVE.
func (s *Store) DeactivateKiosk(ctx context.Context, kioskID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE kiosks SET status = $1, updated_at = NOW() WHERE kiosk_id = $2
	`, models.KioskStatusInactive, kioskID)
	if err != nil {
		return fmt.Errorf("failed to deactivate kiosk: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrKioskNotFound
	}
	return nil
}

// RefreshKioskStats recomputes the cached rollup columns from the ledger.
func (s *Store) RefreshKioskStats(ctx context.Context, kioskID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE kiosks SET
			stats_total_revenue = agg.revenue,
			stats_total_transactions = agg.count,
			stats_total_pages = agg.pages,
			stats_last_transaction_at = agg.last_at,
			updated_at = NOW()
		FROM (
			SELECT COALESCE(SUM(amount), 0) AS revenue,
				COUNT(*) AS count,
				COALESCE(SUM(total_pages), 0) AS pages,
				MAX(created_at) AS last_at
			FROM transactions
			WHERE kiosk_id = $1 AND status = 'SUCCESS'
		) agg
		WHERE kiosk_id = $1
	`, kioskID)
	if err != nil {
		return fmt.Errorf("failed to refresh kiosk stats: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrKioskNotFound
	}
	return nil
}

func scanKiosk(row rowScanner) (*models.Kiosk, error) {
	var k models.Kiosk
	err := row.Scan(
		&k.KioskID, &k.Username, &k.LocationName, &k.Address, &k.Status, &k.OwnerEmail, &k.OwnerPhone, &k.DeviceID,
		&k.PrinterModel, &k.PrinterStatus, &k.Pricing.ColorPerPage, &k.Pricing.BWPerPage,
		&k.Stats.TotalRevenue, &k.Stats.TotalTransactions, &k.Stats.TotalPages, &k.Stats.LastTransactionAt,
		&k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
