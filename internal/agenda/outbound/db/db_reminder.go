package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
)

// CreateReminders asks the database to (re)build the reminder rows of an event.
func (s *DB) CreateReminders(ctx context.Context, eventID int64) (err error) {
	ctx, span := s.startSpan(ctx, "CreateReminders")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `select create_agenda_reminders(p_event_id => $1)`, eventID)
	return s.mapError(err)
}

// DeletePendingReminders removes undelivered reminders of an event, limited
// to types when any are given.
func (s *DB) DeletePendingReminders(ctx context.Context, eventID int64, types ...entity.ReminderType) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeletePendingReminders")
	defer func() { s.endSpan(span, err) }()

	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}

	tag, err := s.conn.Exec(ctx, `
		delete from agenda_reminders_queue
		where event_id = $1 and not delivered
			and (cardinality($2::text[]) = 0 or type = any($2::text[]))`,
		eventID, names,
	)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

func (s *DB) EnqueueReminder(ctx context.Context, eventID int64, runAt time.Time, typ entity.ReminderType) (err error) {
	ctx, span := s.startSpan(ctx, "EnqueueReminder")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		insert into agenda_reminders_queue (event_id, run_at, type, delivered, attempt)
		values ($1, $2, $3, false, 0)`,
		eventID, runAt, typ,
	)
	return s.mapError(err)
}

func (s *DB) ListDueReminders(ctx context.Context, now time.Time, limit int32) (_ []entity.DueReminder, err error) {
	ctx, span := s.startSpan(ctx, "ListDueReminders")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select q.id, q.event_id, q.run_at, q.type, q.delivered, q.attempt,
			e.id, e.user_id::text, e.date, e.time, e.title, coalesce(e.description, ''), e.status,
			e.important, e.archived, e.created_at, e.updated_at
		from agenda_reminders_queue q
		join agenda_events e on e.id = q.event_id
		where not q.delivered and q.run_at <= $1
		order by q.run_at, q.id
		limit $2`,
		now, limit,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DueReminder, error) {
		var d entity.DueReminder
		e := &d.Event
		err := row.Scan(&d.ID, &d.EventID, &d.RunAt, &d.Type, &d.Delivered, &d.Attempt,
			&e.ID, &e.UserID, &e.Date, &e.Time, &e.Title, &e.Description, &e.Status,
			&e.Important, &e.Archived, &e.CreatedAt, &e.UpdatedAt)
		return d, err
	})
	return items, s.mapError(err)
}

// MarkReminderDelivered flags a reminder as delivered. attempted also bumps
// the attempt counter.
func (s *DB) MarkReminderDelivered(ctx context.Context, id int64, attempted bool) (err error) {
	ctx, span := s.startSpan(ctx, "MarkReminderDelivered")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		update agenda_reminders_queue
		set delivered = true, attempt = attempt + case when $2::bool then 1 else 0 end
		where id = $1`,
		id, attempted,
	)
	return s.mapError(err)
}
