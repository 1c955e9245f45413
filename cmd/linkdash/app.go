package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/Popolzen/linkdash/internal/audit"
	"github.com/Popolzen/linkdash/internal/auth"
	"github.com/Popolzen/linkdash/internal/config"
	"github.com/Popolzen/linkdash/internal/db"
	"github.com/Popolzen/linkdash/internal/gateway"
	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/progress"
	"github.com/Popolzen/linkdash/internal/qrcache"
	"github.com/Popolzen/linkdash/internal/qrgen"
	"github.com/Popolzen/linkdash/internal/store"
	"github.com/redis/go-redis/v9"
)

type App struct {
	server    *http.Server
	store     *store.Store
	session   *auth.Session
	progress  *progress.Tracker
	publisher *audit.Publisher
	database  *db.DataBase
	redis     *redis.Client

	closeOnce sync.Once
}

// newApp собирает хранилище ссылок со всеми зависимостями из конфигурации
func newApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{progress: progress.Init()}

	session, err := auth.NewSession(cfg.GetBackendURL(), cfg.SessionCookie, cfg.SessionToken)
	if err != nil {
		return nil, err
	}
	app.session = session

	gw := gateway.NewHTTPGateway(cfg.GetBackendURL(), session, cfg.Timeout())
	opts := []store.Option{store.WithProgress(app.progress)}

	if cfg.QRMode == config.QRModeLocal {
		opts = append(opts, store.WithQRSource(qrgen.NewLocal(qrgen.DefaultSize)))
		logger.L().Infow("QR-коды генерируются локально")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis недоступен: %w", err)
		}
		app.redis = client

		cache, err := qrcache.NewLayered(qrcache.DefaultFrontSize, qrcache.NewRedis(client))
		if err != nil {
			app.Close()
			return nil, err
		}
		opts = append(opts, store.WithQRCache(cache))
		logger.L().Infow("кеш QR-кодов в redis", "addr", cfg.RedisAddr)
	}

	publisher, err := app.initAudit(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.publisher = publisher
	opts = append(opts, store.WithAudit(publisher))

	app.store = store.New(gw, opts...)
	return app, nil
}

// initAudit - функция инициализации аудита:
func (a *App) initAudit(ctx context.Context, cfg *config.Config) (*audit.Publisher, error) {
	publisher := audit.NewPublisher()

	// Файловый observer
	if cfg.AuditFile != "" {
		fileObs, err := audit.NewFileObserver(cfg.AuditFile)
		if err != nil {
			logger.L().Warnw("не удалось создать file observer", "error", err)
		} else {
			publisher.Subscribe(fileObs)
			logger.L().Infow("аудит в файл", "path", cfg.AuditFile)
		}
	}

	// HTTP observer
	if cfg.AuditURL != "" {
		publisher.Subscribe(audit.NewHTTPObserver(cfg.AuditURL))
		logger.L().Infow("аудит на сервер", "url", cfg.AuditURL)
	}

	// Postgres observer
	if cfg.AuditDSN != "" {
		database, err := db.NewDataBase(ctx, cfg.AuditDSN)
		if err != nil {
			publisher.Close()
			return nil, err
		}
		if err := database.Migrate(); err != nil {
			database.Close()
			publisher.Close()
			return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
		}
		a.database = database
		publisher.Subscribe(audit.NewDBObserver(database.DB))
		logger.L().Infow("аудит в базу данных")
	}

	return publisher, nil
}

// Close закрывает все ресурсы, повторный вызов ничего не делает
func (a *App) Close() error {
	a.closeOnce.Do(a.close)
	return nil
}

func (a *App) close() {
	if a.store != nil {
		a.store.Close()
	}

	if err := a.publisher.Close(); err != nil {
		logger.L().Warnw("ошибка закрытия publisher", "error", err)
	}

	if a.database != nil {
		if err := a.database.Close(); err != nil {
			logger.L().Warnw("ошибка закрытия базы аудита", "error", err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.L().Warnw("ошибка закрытия redis", "error", err)
		}
	}
}

// Shutdown выполняет graceful shutdown с таймаутом
func (a *App) Shutdown(ctx context.Context) error {
	if a.server != nil {
		logger.L().Infow("останавливаем HTTP сервер")
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("ошибка остановки сервера: %w", err)
		}
	}
	return a.Close()
}
