package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mirai-scheduler/internal/slots"
)

// Repository reads the Mirai schema directly. It never writes.
type Repository struct {
	DB *pgxpool.Pool
	// UnitMinutes is the length of one availability slot.
	UnitMinutes int
}

func New(ctx context.Context, databaseURL string, unitMinutes int) (*Repository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Repository{DB: pool, UnitMinutes: unitMinutes}, nil
}

func (r *Repository) Close() {
	r.DB.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FreeAvailability lists availability slots with no row in the booking join table.
func (r *Repository) FreeAvailability(ctx context.Context) ([]slots.AvailabilitySlot, error) {
	q := `SELECT a.id, a.employee_id, a.datetime, a.type_id, a.created_at, a.last_edited
	      FROM availability a
	      LEFT JOIN booking_slots bs ON bs.availability_slot_id = a.id
	      WHERE bs.availability_slot_id IS NULL
	      ORDER BY a.datetime, a.id`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []slots.AvailabilitySlot
	for rows.Next() {
		var s slots.AvailabilitySlot
		var datetime, createdAt, lastEdited time.Time
		if err := rows.Scan(&s.ID, &s.EmployeeID, &datetime, &s.TypeID, &createdAt, &lastEdited); err != nil {
			return nil, err
		}
		s.Datetime = formatTimestamp(datetime)
		s.CreatedAt = formatTimestamp(createdAt)
		s.LastEdited = formatTimestamp(lastEdited)
		out = append(out, s)
	}
	return out, rows.Err()
}

// BookingTypes lists all booking types. The schema has no duration column, so
// Duration stays zero and callers pass the wanted duration explicitly.
func (r *Repository) BookingTypes(ctx context.Context) ([]slots.BookingType, error) {
	q := `SELECT id, title, description, fixed, cost FROM booking_types ORDER BY id`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []slots.BookingType
	for rows.Next() {
		var bt slots.BookingType
		if err := rows.Scan(&bt.ID, &bt.Title, &bt.Description, &bt.Fixed, &bt.Cost); err != nil {
			return nil, err
		}
		out = append(out, bt)
	}
	return out, rows.Err()
}

// Bookings returns non-cancelled bookings with their time range derived from
// the claimed slots.
func (r *Repository) Bookings(ctx context.Context) ([]slots.Booking, error) {
	q := `SELECT b.id, b.user_id, u.email, a.employee_id, b.type_id, bt.title, b.paid, b.cost, b.status,
	             MIN(a.datetime), MAX(a.datetime) + make_interval(mins => $1)
	      FROM bookings b
	      JOIN users u ON u.id = b.user_id
	      JOIN booking_types bt ON bt.id = b.type_id
	      JOIN booking_slots bs ON bs.booking_id = b.id
	      JOIN availability a ON a.id = bs.availability_slot_id
	      WHERE b.status <> 'cancelled'
	      GROUP BY b.id, u.email, a.employee_id, bt.title
	      ORDER BY MIN(a.datetime)`
	rows, err := r.DB.Query(ctx, q, int32(r.UnitMinutes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (slots.Booking, error) {
		var b slots.Booking
		var start, end time.Time
		err := row.Scan(&b.ID, &b.UserID, &b.UserEmail, &b.EmployeeID, &b.TypeID, &b.TypeTitle,
			&b.Paid, &b.Cost, &b.Status, &start, &end)
		b.StartTime = formatTimestamp(start)
		b.EndTime = formatTimestamp(end)
		return b, err
	})
}
