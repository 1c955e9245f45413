package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Popolzen/linkdash/internal/authority"
	"github.com/Popolzen/linkdash/internal/config"
	"github.com/Popolzen/linkdash/internal/handler"
	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/model"
	"github.com/Popolzen/linkdash/internal/validation"
	"github.com/atotto/clipboard"
)

const (
	cmdServe     = "serve"
	cmdList      = "list"
	cmdCreate    = "create"
	cmdDelete    = "delete"
	cmdQR        = "qr"
	cmdCopy      = "copy"
	cmdAuthority = "authority"
	cmdVersion   = "version"

	shutdownTimeout = 5 * time.Second
	dateLayout      = "2006-01-02"
)

var errUsage = errors.New(`использование: linkdash [флаги] <команда>

команды:
  serve                  дашборд (по умолчанию)
  list                   список ссылок
  create <url> [дата]    новая ссылка, дата в формате 2006-01-02
  delete <id>            удалить ссылку
  qr <id> [файл.png]     сохранить QR-код ссылки
  copy <id>              скопировать короткую ссылку в буфер обмена
  authority              локальный сервис ссылок для разработки
  version                версия сборки`)

// clipboardWrite подменяется в тестах
var clipboardWrite = clipboard.WriteAll

func run(ctx context.Context, cfg *config.Config, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case cmdAuthority:
		return runAuthority(ctx, cfg)
	case cmdVersion:
		printBuildInfo()
		return nil
	}

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	switch cmd {
	case cmdServe:
		return runServe(ctx, app, cfg)
	case cmdList:
		return runList(ctx, app, out)
	case cmdCreate:
		return runCreate(ctx, app, args, out)
	case cmdDelete:
		return runDelete(ctx, app, args, out)
	case cmdQR:
		return runQR(ctx, app, args, out)
	case cmdCopy:
		return runCopy(ctx, app, args, out)
	default:
		return errUsage
	}
}

func runServe(ctx context.Context, app *App, cfg *config.Config) error {
	if err := app.store.Refresh(ctx); err != nil {
		logger.L().Warnw("начальная загрузка ссылок не удалась", "error", err)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Store:         app.store,
		Progress:      app.progress,
		Session:       app.session,
		TrustedSubnet: cfg.TrustedSubnet,
	})
	app.server = &http.Server{Addr: cfg.GetListenAddr(), Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Infow("дашборд запущен", "addr", "http://"+cfg.GetListenAddr())
		errCh <- app.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("не удалось запустить сервер: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Infow("получен сигнал остановки, завершаем работу")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func runList(ctx context.Context, app *App, out io.Writer) error {
	if err := app.store.Refresh(ctx); err != nil {
		return err
	}

	links := app.store.CurrentLinks()
	if len(links) == 0 {
		fmt.Fprintln(out, handler.MsgNoURLs)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHORT\tORIGINAL\tCREATED\tEXPIRES")
	for _, l := range links {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.ShortenedURL, l.OriginalURL, l.CreatedAt.Format(dateLayout), expires(l))
	}
	return w.Flush()
}

func expires(l model.Link) string {
	if l.NeverExpires() {
		return "never"
	}
	return l.ExpiredIn.Format(dateLayout)
}

func runCreate(ctx context.Context, app *App, args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	form := validation.ShortenForm{URL: args[0]}
	if len(args) == 2 {
		form.ExpiredIn = args[1]
	}
	req, err := validation.Parse(form)
	if err != nil {
		return err
	}

	link, err := app.store.CreateLink(ctx, req.URL, req.ExpiredIn)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, link.ShortenedURL)
	return nil
}

func runDelete(ctx context.Context, app *App, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := app.store.DeleteLink(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(out, "Удалено:", args[0])
	return nil
}

func runQR(ctx context.Context, app *App, args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	// Локальному генератору нужен короткий адрес из коллекции
	if err := app.store.Refresh(ctx); err != nil {
		return err
	}

	img, err := app.store.GetQRCode(ctx, args[0])
	if err != nil {
		return err
	}

	path := args[0] + ".png"
	if len(args) == 2 {
		path = args[1]
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("не удалось сохранить QR-код: %w", err)
	}
	fmt.Fprintln(out, "QR-код сохранён:", path)
	return nil
}

func runCopy(ctx context.Context, app *App, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := app.store.Refresh(ctx); err != nil {
		return err
	}

	link, ok := app.store.Find(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrNotFound, args[0])
	}

	if err := clipboardWrite(link.ShortenedURL); err != nil {
		logger.L().Debugw("буфер обмена недоступен", "error", err)
		fmt.Fprintln(out, link.ShortenedURL)
		return nil
	}
	fmt.Fprintln(out, "Скопировано:", link.ShortenedURL)
	return nil
}

func runAuthority(ctx context.Context, cfg *config.Config) error {
	srv := authority.NewServer(authority.NewRepository(), cfg.SessionCookie, "http://"+cfg.AuthorityAddr)
	server := &http.Server{Addr: cfg.AuthorityAddr, Handler: srv.Router()}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Infow("сервис ссылок запущен", "addr", "http://"+cfg.AuthorityAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("не удалось запустить сервер: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
