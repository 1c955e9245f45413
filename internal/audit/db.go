package audit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const insertEvent = `
	INSERT INTO audit_events (id, ts, action, link_id, url, outcome, error)
	VALUES ($1, to_timestamp($2), $3, $4, $5, $6, $7)
`

// DBObserver пишет события в таблицу audit_events
type DBObserver struct {
	db      *sql.DB
	timeout time.Duration
}

// NewDBObserver схема должна быть создана миграциями
func NewDBObserver(db *sql.DB) *DBObserver {
	return &DBObserver{db: db, timeout: 5 * time.Second}
}

func (d *DBObserver) Notify(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, insertEvent,
		event.ID, event.Timestamp, string(event.Action),
		nullable(event.LinkID), nullable(event.URL),
		string(event.Outcome), nullable(event.Error),
	)
	if err == nil {
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		logger.L().Debugw("audit db: событие уже записано", "id", event.ID)
		return
	}
	logger.L().Errorw("audit db: ошибка записи", "id", event.ID, "error", err)
}

// Close соединением владеет вызывающий
func (d *DBObserver) Close() error {
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
