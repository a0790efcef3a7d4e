package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
)

const botColumns = `id, user_id, label, bot_token_enc, webhook_secret, chat_id, enabled, created_at`

func scanBot(row pgx.Row) (entity.Bot, error) {
	var b entity.Bot
	err := row.Scan(&b.ID, &b.UserID, &b.Label, &b.TokenEnc, &b.WebhookSecret, &b.ChatID, &b.Enabled, &b.CreatedAt)
	return b, err
}

func collectBots(rows pgx.Rows) ([]entity.Bot, error) {
	defer rows.Close()

	bots := make([]entity.Bot, 0)
	for rows.Next() {
		b, err := scanBot(rows)
		if err != nil {
			return nil, err
		}
		bots = append(bots, b)
	}
	return bots, rows.Err()
}

func (s *DB) ListBots(ctx context.Context, userID string) (bots []entity.Bot, err error) {
	ctx, span := s.startSpan(ctx, "ListBots")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+botColumns+`
		from user_telegram_bots
		where user_id = $1
		order by created_at desc`, userID)
	if err != nil {
		return nil, err
	}

	return collectBots(rows)
}

func (s *DB) GetBot(ctx context.Context, id int64) (b entity.Bot, err error) {
	ctx, span := s.startSpan(ctx, "GetBot")
	defer func() { s.endSpan(span, err) }()

	b, err = scanBot(s.conn.QueryRow(ctx, `select `+botColumns+` from user_telegram_bots where id = $1`, id))
	return b, s.mapError(err)
}

func (s *DB) CreateBot(ctx context.Context, in entity.CreateBot) (b entity.Bot, err error) {
	ctx, span := s.startSpan(ctx, "CreateBot")
	defer func() { s.endSpan(span, err) }()

	b, err = scanBot(s.conn.QueryRow(ctx, `
		insert into user_telegram_bots (user_id, label, bot_token_enc, webhook_secret, enabled)
		values ($1, $2, $3, $4, true)
		returning `+botColumns,
		in.UserID, in.Label, in.TokenEnc, in.WebhookSecret,
	))
	return b, s.mapError(err)
}

// DeleteBot removes a bot owned by userID.
func (s *DB) DeleteBot(ctx context.Context, userID string, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteBot")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `delete from user_telegram_bots where id = $1 and user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}

func (s *DB) SetChatID(ctx context.Context, id, chatID int64) (err error) {
	ctx, span := s.startSpan(ctx, "SetChatID")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `update user_telegram_bots set chat_id = $2 where id = $1`, id, chatID)
	return err
}

// ListDeliverableBots returns enabled bots with a chat. A nil userID selects
// every user's bots.
func (s *DB) ListDeliverableBots(ctx context.Context, userID *string) (bots []entity.Bot, err error) {
	ctx, span := s.startSpan(ctx, "ListDeliverableBots")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+botColumns+`
		from user_telegram_bots
		where enabled and chat_id is not null
		  and ($1::uuid is null or user_id = $1::uuid)
		order by id`, userID)
	if err != nil {
		return nil, err
	}

	return collectBots(rows)
}
