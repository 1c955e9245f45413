package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	migration "github.com/Popolzen/linkdash/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DataBase подключение к базе аудита
type DataBase struct {
	*sql.DB
}

// NewDataBase открывает пул соединений и проверяет доступность базы
func NewDataBase(ctx context.Context, dsn string) (*DataBase, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть подключение: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("база аудита недоступна: %w", err)
	}

	return &DataBase{DB: db}, nil
}

// Migrate применяет встроенные миграции
func (d *DataBase) Migrate() error {
	return migration.MigrateUp(d.DB)
}
