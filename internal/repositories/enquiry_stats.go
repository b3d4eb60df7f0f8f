package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// EnquiryStatusCount is the number of enquiries in one status across all
// tenants.
type EnquiryStatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

type EnquiryStatsRepository interface {
	CountByStatus(ctx context.Context) ([]EnquiryStatusCount, error)
}

type enquiryStatsRepo struct {
	db DB
}

func NewEnquiryStatsRepo(db DB) EnquiryStatsRepository {
	return &enquiryStatsRepo{db: db}
}

func (r *enquiryStatsRepo) CountByStatus(ctx context.Context) ([]EnquiryStatusCount, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) AS count FROM enquiries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count enquiries: %w", err)
	}
	counts, err := pgx.CollectRows(rows, pgx.RowToStructByName[EnquiryStatusCount])
	if err != nil {
		return nil, fmt.Errorf("count enquiries: %w", err)
	}
	return counts, nil
}
