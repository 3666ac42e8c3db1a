// Package postgres persists delivery run records. The delivery log is
// an audit trail for webhook runs; the engine works fine without it, so
// the server only wires this repo when a database URL is configured.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ignite/outreach-crm/internal/webhook"
)

// DeliveryLogRepo implements the delivery audit log against PostgreSQL.
type DeliveryLogRepo struct{ db *sql.DB }

// NewDeliveryLogRepo creates a Postgres-backed delivery log.
func NewDeliveryLogRepo(db *sql.DB) *DeliveryLogRepo { return &DeliveryLogRepo{db: db} }

// DeliveryRun is one persisted run row.
type DeliveryRun struct {
	RunID        string    `json:"run_id"`
	CampaignID   string    `json:"campaign_id"`
	LeadListID   string    `json:"lead_list_id"`
	Success      bool      `json:"success"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	TotalLeads   int       `json:"total_leads"`
	Errors       string    `json:"errors,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Record persists the outcome of one delivery run.
func (r *DeliveryLogRepo) Record(ctx context.Context, s webhook.Summary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delivery_runs
			(run_id, campaign_id, lead_list_id, success,
			 success_count, failure_count, total_leads, errors,
			 started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, s.RunID.String(), s.CampaignID, s.LeadListID, s.Success,
		s.SuccessCount, s.FailureCount, s.TotalLeads, strings.Join(s.Errors, "\n"),
		s.StartedAt, s.FinishedAt)
	if err != nil {
		return fmt.Errorf("record delivery run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (r *DeliveryLogRepo) Recent(ctx context.Context, limit int) ([]DeliveryRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, campaign_id, lead_list_id, success,
		       success_count, failure_count, total_leads, COALESCE(errors,''),
		       started_at, finished_at
		FROM delivery_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list delivery runs: %w", err)
	}
	defer rows.Close()

	var out []DeliveryRun
	for rows.Next() {
		var d DeliveryRun
		if err := rows.Scan(
			&d.RunID, &d.CampaignID, &d.LeadListID, &d.Success,
			&d.SuccessCount, &d.FailureCount, &d.TotalLeads, &d.Errors,
			&d.StartedAt, &d.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan delivery run: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
