package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite backed ports.Store.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
}

var _ ports.Store = (*Store)(nil)

// Open opens (creating if needed) the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ports.ErrStorageUnavailable, err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) check() error {
	if s.closed.Load() {
		return ports.ErrStorageUnavailable
	}
	return nil
}

// GetConference returns the conference with the given ID.
func (s *Store) GetConference(ctx context.Context, id string) (*domain.Conference, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, city, start_date, end_date, capacity, currency,
		       sales_target_json, sponsor_ticket_allowance, slack_channel, organizer_emails_json
		FROM conferences WHERE id = ?`, id)
	c, err := scanConference(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: conference %q", ports.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conference %q: %w", id, err)
	}
	return c, nil
}

// ListConferences returns all conferences sorted by start date, then ID.
func (s *Store) ListConferences(ctx context.Context) ([]*domain.Conference, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, city, start_date, end_date, capacity, currency,
		       sales_target_json, sponsor_ticket_allowance, slack_channel, organizer_emails_json
		FROM conferences ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conferences: %w", err)
	}
	defer rows.Close()

	var out []*domain.Conference
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conference: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveConference inserts or replaces a conference.
func (s *Store) SaveConference(ctx context.Context, c *domain.Conference) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.check(); err != nil {
		return err
	}

	target, err := json.Marshal(c.SalesTarget)
	if err != nil {
		return fmt.Errorf("failed to encode sales target: %w", err)
	}
	emails, err := json.Marshal(c.OrganizerEmails)
	if err != nil {
		return fmt.Errorf("failed to encode organizer emails: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conferences (id, title, city, start_date, end_date, capacity, currency,
		                         sales_target_json, sponsor_ticket_allowance, slack_channel, organizer_emails_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			city = excluded.city,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			capacity = excluded.capacity,
			currency = excluded.currency,
			sales_target_json = excluded.sales_target_json,
			sponsor_ticket_allowance = excluded.sponsor_ticket_allowance,
			slack_channel = excluded.slack_channel,
			organizer_emails_json = excluded.organizer_emails_json`,
		c.ID, c.Title, c.City, formatTime(c.StartDate), formatTime(c.EndDate), c.Capacity, c.Currency,
		string(target), c.SponsorTicketAllowance, c.SlackChannel, string(emails))
	if err != nil {
		return fmt.Errorf("failed to save conference %q: %w", c.ID, err)
	}
	return nil
}

// ListTicketOrders returns the conference's rows in import order.
func (s *Store) ListTicketOrders(ctx context.Context, conferenceID string) ([]domain.TicketOrder, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.conferenceExists(ctx, s.db, conferenceID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, ticket_id, category, customer_name, sum, sum_left, order_date
		FROM ticket_orders WHERE conference_id = ? ORDER BY seq`, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket orders: %w", err)
	}
	defer rows.Close()

	out := []domain.TicketOrder{}
	for rows.Next() {
		var (
			o                  domain.TicketOrder
			sum, left, ordered string
		)
		if err := rows.Scan(&o.OrderID, &o.TicketID, &o.Category, &o.CustomerName, &sum, &left, &ordered); err != nil {
			return nil, fmt.Errorf("failed to scan ticket order: %w", err)
		}
		if o.Sum, err = decimal.NewFromString(sum); err != nil {
			return nil, fmt.Errorf("corrupt sum for order %d: %w", o.OrderID, err)
		}
		if o.SumLeft, err = decimal.NewFromString(left); err != nil {
			return nil, fmt.Errorf("corrupt sum_left for order %d: %w", o.OrderID, err)
		}
		if o.OrderDate, err = parseTime(ordered); err != nil {
			return nil, fmt.Errorf("corrupt order_date for order %d: %w", o.OrderID, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// AddTicketOrders replaces rows sharing a non-zero TicketID and appends the
// rest, in one transaction.
func (s *Store) AddTicketOrders(ctx context.Context, conferenceID string, orders []domain.TicketOrder) (int, error) {
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := s.check(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := s.conferenceExists(ctx, tx, conferenceID); err != nil {
		return 0, err
	}

	for _, o := range orders {
		args := []any{o.OrderID, o.Category, o.CustomerName, o.Sum.String(), o.SumLeft.String(), formatTime(o.OrderDate)}
		if o.TicketID != 0 {
			res, err := tx.ExecContext(ctx, `
				UPDATE ticket_orders
				SET order_id = ?, category = ?, customer_name = ?, sum = ?, sum_left = ?, order_date = ?
				WHERE conference_id = ? AND ticket_id = ?`,
				append(args, conferenceID, o.TicketID)...)
			if err != nil {
				return 0, fmt.Errorf("failed to update ticket %d: %w", o.TicketID, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				continue
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ticket_orders (order_id, category, customer_name, sum, sum_left, order_date, conference_id, ticket_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			append(args, conferenceID, o.TicketID)...); err != nil {
			return 0, fmt.Errorf("failed to insert order %d: %w", o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ticket orders: %w", err)
	}
	return len(orders), nil
}

// ListSponsorDeals returns the conference's deals sorted by sponsor name.
func (s *Store) ListSponsorDeals(ctx context.Context, conferenceID string) ([]domain.SponsorDeal, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conference_id, sponsor_name, tier, status, contract_status, invoice_status,
		       contract_value, currency, assigned_to, updated_at
		FROM sponsor_deals WHERE conference_id = ? ORDER BY lower(sponsor_name), id`, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsor deals: %w", err)
	}
	defer rows.Close()

	var out []domain.SponsorDeal
	for rows.Next() {
		var (
			d                domain.SponsorDeal
			value, updatedAt string
		)
		if err := rows.Scan(&d.ID, &d.ConferenceID, &d.SponsorName, &d.Tier, &d.Status, &d.ContractStatus,
			&d.InvoiceStatus, &value, &d.Currency, &d.AssignedTo, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor deal: %w", err)
		}
		if d.ContractValue, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("corrupt contract_value for deal %s: %w", d.ID, err)
		}
		if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("corrupt updated_at for deal %s: %w", d.ID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SaveSponsorDeal inserts or replaces a deal.
func (s *Store) SaveSponsorDeal(ctx context.Context, d domain.SponsorDeal) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.check(); err != nil {
		return err
	}
	if err := s.conferenceExists(ctx, s.db, d.ConferenceID); err != nil {
		return err
	}

	// The WHERE clause keeps an existing deal in its conference; a
	// mismatch updates nothing.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sponsor_deals (id, conference_id, sponsor_name, tier, status, contract_status,
		                           invoice_status, contract_value, currency, assigned_to, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			conference_id = excluded.conference_id,
			sponsor_name = excluded.sponsor_name,
			tier = excluded.tier,
			status = excluded.status,
			contract_status = excluded.contract_status,
			invoice_status = excluded.invoice_status,
			contract_value = excluded.contract_value,
			currency = excluded.currency,
			assigned_to = excluded.assigned_to,
			updated_at = excluded.updated_at
		WHERE sponsor_deals.conference_id = excluded.conference_id`,
		d.ID, d.ConferenceID, d.SponsorName, d.Tier, string(d.Status), string(d.ContractStatus),
		string(d.InvoiceStatus), d.ContractValue.String(), d.Currency, d.AssignedTo, formatTime(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save sponsor deal %q: %w", d.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save sponsor deal %q: %w", d.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: sponsor deal %q in conference %q", ports.ErrNotFound, d.ID, d.ConferenceID)
	}
	return nil
}

// GetProposal returns the proposal with the given ID.
func (s *Store) GetProposal(ctx context.Context, id string) (*domain.Proposal, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, conference_id, title, format, speaker_name, speaker_email, status, updated_at
		FROM proposals WHERE id = ?`, id)
	p, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: proposal %q", ports.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load proposal %q: %w", id, err)
	}
	return &p, nil
}

// ListProposals returns the conference's proposals sorted by ID.
func (s *Store) ListProposals(ctx context.Context, conferenceID string) ([]domain.Proposal, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conference_id, title, format, speaker_name, speaker_email, status, updated_at
		FROM proposals WHERE conference_id = ? ORDER BY id`, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var out []domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveProposal inserts or replaces a proposal.
func (s *Store) SaveProposal(ctx context.Context, p domain.Proposal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.check(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proposals (id, conference_id, title, format, speaker_name, speaker_email, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			conference_id = excluded.conference_id,
			title = excluded.title,
			format = excluded.format,
			speaker_name = excluded.speaker_name,
			speaker_email = excluded.speaker_email,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		p.ID, p.ConferenceID, p.Title, p.Format, p.SpeakerName, p.SpeakerEmail, string(p.Status), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save proposal %q: %w", p.ID, err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) conferenceExists(ctx context.Context, q queryer, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM conferences WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: conference %q", ports.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to look up conference %q: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConference(sc scanner) (*domain.Conference, error) {
	var (
		c                   domain.Conference
		start, end          string
		targetJSON, mailsJS string
	)
	if err := sc.Scan(&c.ID, &c.Title, &c.City, &start, &end, &c.Capacity, &c.Currency,
		&targetJSON, &c.SponsorTicketAllowance, &c.SlackChannel, &mailsJS); err != nil {
		return nil, err
	}

	var err error
	if c.StartDate, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("corrupt start_date: %w", err)
	}
	if c.EndDate, err = parseTime(end); err != nil {
		return nil, fmt.Errorf("corrupt end_date: %w", err)
	}
	if err := json.Unmarshal([]byte(targetJSON), &c.SalesTarget); err != nil {
		return nil, fmt.Errorf("corrupt sales_target_json: %w", err)
	}
	if err := json.Unmarshal([]byte(mailsJS), &c.OrganizerEmails); err != nil {
		return nil, fmt.Errorf("corrupt organizer_emails_json: %w", err)
	}
	return &c, nil
}

func scanProposal(sc scanner) (domain.Proposal, error) {
	var (
		p         domain.Proposal
		updatedAt string
	)
	if err := sc.Scan(&p.ID, &p.ConferenceID, &p.Title, &p.Format, &p.SpeakerName, &p.SpeakerEmail, &p.Status, &updatedAt); err != nil {
		return p, err
	}
	var err error
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return p, fmt.Errorf("corrupt updated_at: %w", err)
	}
	return p, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}
