package postgres

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

type auditRepository struct {
	store *Store
}

// NewAuditRepository создаёт PostgreSQL-реализацию AuditRepository.
func NewAuditRepository(store *Store) domain.AuditRepository {
	return &auditRepository{store: store}
}

func (r *auditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := psql.Insert("audit_log").
		Columns("id", "ts", "action", "details", "order_id", "device_info", "client_ip").
		Values(entry.ID, entry.Timestamp, entry.Action, entry.Details, entry.OrderID, entry.DeviceInfo, entry.ClientIP).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit entry: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	builder := psql.Select("id", "ts", "action", "details", "order_id", "device_info", "client_ip").
		From("audit_log").
		OrderBy("ts DESC", "seq DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit log: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.Details, &e.OrderID, &e.DeviceInfo, &e.ClientIP); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return entries, nil
}

func (r *auditRepository) DeleteAll(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.store.db.ExecContext(ctx, `DELETE FROM audit_log`)
	if err != nil {
		return 0, fmt.Errorf("delete audit log: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.AuditRepository = (*auditRepository)(nil)
