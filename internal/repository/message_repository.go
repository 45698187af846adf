package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/smsinbound-backend/internal/model"
)

// InsertResult classifies the outcome of an idempotent insert.
type InsertResult string

const (
	ResultCreated   InsertResult = "created"
	ResultDuplicate InsertResult = "duplicate"
)

// MessageFilter narrows a message query. Zero values mean no constraint.
// Filters combine with AND.
type MessageFilter struct {
	From  string     // exact match on sender
	Since *time.Time // inclusive lower bound on ts
	Q     string     // case-insensitive substring match on text
}

type SenderCount struct {
	From  string `json:"from"`
	Count int    `json:"count"`
}

// MessageStats is the aggregate view over all stored messages. The ts bounds
// are nil when the store is empty.
type MessageStats struct {
	TotalMessages     int           `json:"total_messages"`
	SendersCount      int           `json:"senders_count"`
	MessagesPerSender []SenderCount `json:"messages_per_sender"`
	FirstMessageTS    *time.Time    `json:"first_message_ts"`
	LastMessageTS     *time.Time    `json:"last_message_ts"`
}

// MessageRepositoryInterface defines methods used by the service layer.
type MessageRepositoryInterface interface {
	// Insert persists a validated message. A second insert with the same
	// message_id is a no-op reported as ResultDuplicate.
	Insert(msg *model.Message) (InsertResult, error)

	// Query returns the matching page ordered by (ts ASC, message_id ASC)
	// and the total match count before pagination.
	Query(limit, offset int, filter MessageFilter) ([]model.Message, int, error)

	Stats() (*MessageStats, error)
}

// MessageRepository is the Postgres implementation.
type MessageRepository struct {
	DB *sql.DB
}

func (r *MessageRepository) Insert(msg *model.Message) (InsertResult, error) {
	msg.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO messages (message_id, from_msisdn, to_msisdn, ts, text, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (message_id) DO NOTHING
    `
	res, err := r.DB.Exec(query, msg.MessageID, msg.From, msg.To, msg.TS, msg.Text, msg.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ResultDuplicate, nil
		}
		return "", err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return ResultDuplicate, nil
	}
	return ResultCreated, nil
}

func (r *MessageRepository) Query(limit, offset int, filter MessageFilter) ([]model.Message, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.From != "" {
		where += fmt.Sprintf(" AND from_msisdn=$%d", argPos)
		args = append(args, filter.From)
		argPos++
	}
	if filter.Since != nil {
		where += fmt.Sprintf(" AND ts >= $%d", argPos)
		args = append(args, *filter.Since)
		argPos++
	}
	if filter.Q != "" {
		// Rows with NULL text never match a non-empty q.
		where += fmt.Sprintf(" AND text IS NOT NULL AND LOWER(text) LIKE $%d", argPos)
		args = append(args, "%"+strings.ToLower(filter.Q)+"%")
		argPos++
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT message_id, from_msisdn, to_msisdn, ts, text, created_at FROM messages` + where
	query += fmt.Sprintf(" ORDER BY ts ASC, message_id ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.MessageID, &m.From, &m.To, &m.TS, &m.Text, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *MessageRepository) Stats() (*MessageStats, error) {
	stats := &MessageStats{MessagesPerSender: []SenderCount{}}

	countQuery := `SELECT COUNT(*), COUNT(DISTINCT from_msisdn) FROM messages`
	if err := r.DB.QueryRow(countQuery).Scan(&stats.TotalMessages, &stats.SendersCount); err != nil {
		return nil, err
	}

	senderQuery := `
        SELECT from_msisdn, COUNT(*) AS count
        FROM messages
        GROUP BY from_msisdn
        ORDER BY count DESC, from_msisdn ASC
        LIMIT 10
    `
	rows, err := r.DB.Query(senderQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sc SenderCount
		if err := rows.Scan(&sc.From, &sc.Count); err != nil {
			return nil, err
		}
		stats.MessagesPerSender = append(stats.MessagesPerSender, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var first, last sql.NullTime
	if err := r.DB.QueryRow(`SELECT MIN(ts), MAX(ts) FROM messages`).Scan(&first, &last); err != nil {
		return nil, err
	}
	if first.Valid {
		t := first.Time.UTC()
		stats.FirstMessageTS = &t
	}
	if last.Valid {
		t := last.Time.UTC()
		stats.LastMessageTS = &t
	}

	return stats, nil
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
