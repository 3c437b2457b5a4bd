package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

// PostgresDirectory reads the tenant registry from Postgres. The table is
// maintained by external provisioning; this side only looks up.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory instantiates the directory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// LookupTenant returns the tenant for a unit, or ErrNotFound.
func (d *PostgresDirectory) LookupTenant(ctx context.Context, unitID string) (*domain.Tenant, error) {
	const query = `
        SELECT unit_id, name, phone, email, verify_token, lease_start, lease_end
        FROM tenants WHERE unit_id=$1`
	var tenant domain.Tenant
	if err := d.pool.QueryRow(ctx, query, strings.TrimSpace(unitID)).Scan(
		&tenant.UnitID,
		&tenant.Name,
		&tenant.Phone,
		&tenant.Email,
		&tenant.VerifyToken,
		&tenant.LeaseStart,
		&tenant.LeaseEnd,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// PostgresTicketStore is the external-store implementation of the
// TicketStore contract. Reference uniqueness is enforced by the primary
// key; insertion retries on the rare collision.
type PostgresTicketStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketStore instantiates the store.
func NewPostgresTicketStore(pool *pgxpool.Pool) *PostgresTicketStore {
	return &PostgresTicketStore{pool: pool}
}

const ticketColumns = `reference, unit_id, category, label, description, severity, team,
               priority, response_time_seconds, due_by, status, caller_name,
               callback_number, response_plan, created_at`

// CreateTicket stores the ticket and returns its generated reference.
func (s *PostgresTicketStore) CreateTicket(ctx context.Context, ticket *domain.Ticket) (string, error) {
	const query = `
        INSERT INTO tickets (reference, unit_id, category, label, description, severity, team,
                             priority, response_time_seconds, due_by, status, caller_name,
                             callback_number, response_plan, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (reference) DO NOTHING`

	now := time.Now().UTC()
	stored := *ticket
	stored.Status = domain.TicketStatusOpen
	stored.CreatedAt = now
	stored.DueBy = now.Add(stored.ResponseTime)

	for {
		stored.Reference = "MAD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		cmd, err := s.pool.Exec(ctx, query,
			stored.Reference,
			stored.UnitID,
			stored.Category,
			stored.Label,
			stored.Description,
			stored.Severity,
			stored.Team,
			stored.Priority,
			int64(stored.ResponseTime/time.Second),
			stored.DueBy,
			stored.Status,
			stored.CallerName,
			stored.CallbackNumber,
			stored.ResponsePlan,
			stored.CreatedAt,
		)
		if err != nil {
			return "", err
		}
		if cmd.RowsAffected() == 1 {
			*ticket = stored
			return stored.Reference, nil
		}
	}
}

// GetTicket returns the ticket for a reference, or ErrNotFound.
func (s *PostgresTicketStore) GetTicket(ctx context.Context, reference string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE reference=$1`, ticketColumns)
	row := s.pool.QueryRow(ctx, query, normalizeReference(reference))
	return scanTicket(row)
}

// ListTicketsForUnit returns the unit's tickets in creation order.
func (s *PostgresTicketStore) ListTicketsForUnit(ctx context.Context, unitID string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE unit_id=$1 ORDER BY created_at ASC, reference ASC`, ticketColumns)
	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(unitID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ticket)
	}
	return out, rows.Err()
}

// UpdateTicketStatus applies a forward-only status transition.
func (s *PostgresTicketStore) UpdateTicketStatus(ctx context.Context, reference string, status domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !domain.IsValidStatusTransition(ticket.Status, status) {
		return nil, fmt.Errorf("invalid status transition %s -> %s", ticket.Status, status)
	}
	const query = `UPDATE tickets SET status=$1 WHERE reference=$2 AND status=$3`
	cmd, err := s.pool.Exec(ctx, query, status, ticket.Reference, ticket.Status)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, fmt.Errorf("concurrent status change on %s", ticket.Reference)
	}
	ticket.Status = status
	return ticket, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var responseSeconds int64
	if err := row.Scan(
		&ticket.Reference,
		&ticket.UnitID,
		&ticket.Category,
		&ticket.Label,
		&ticket.Description,
		&ticket.Severity,
		&ticket.Team,
		&ticket.Priority,
		&responseSeconds,
		&ticket.DueBy,
		&ticket.Status,
		&ticket.CallerName,
		&ticket.CallbackNumber,
		&ticket.ResponsePlan,
		&ticket.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ticket.ResponseTime = time.Duration(responseSeconds) * time.Second
	return &ticket, nil
}
