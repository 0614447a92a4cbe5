package pkg

import (
	"context"
	"fmt"
	"io"

	"adalcrm/internal/api"
	"adalcrm/internal/app/config"
	"adalcrm/internal/app/handler"
	"adalcrm/internal/app/redis"
	"adalcrm/internal/app/repository"
	"adalcrm/internal/app/session"
	"adalcrm/internal/app/storage"

	"github.com/sirupsen/logrus"
)

type Application struct {
	Config  *config.Config
	Session *session.Store
	Client  *api.Client
	Handler *handler.Handler

	closers []func() error
}

// NewApp собирает хранилище, сессию, клиент и обработчики команд
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*Application, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	backend, closer, err := NewStorage(ctx, c)
	if err != nil {
		return nil, err
	}

	app := &Application{Config: c}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	app.Session = session.NewStore(backend)
	app.Session.OnClear(func() {
		fmt.Fprintln(out, "Сессия завершена. Для входа выполните: adalcrm login")
	})

	app.Client, err = api.New(c.API.BaseURL, app.Session)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Handler = handler.NewHandler(app.Client, app.Session, in, out)

	return app, nil
}

// NewStorage бэкенд сессии по session.backend
func NewStorage(ctx context.Context, c *config.Config) (session.Storage, func() error, error) {
	switch c.Session.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), nil, nil
	case config.BackendRedis:
		client, err := redis.New(ctx, c.Redis)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case config.BackendPostgres:
		repo, err := repository.New(c.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return repo, repo.Close, nil
	case config.BackendFile, "":
		file, err := storage.NewFile(c.Session.File)
		if err != nil {
			return nil, nil, err
		}
		return file, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown session backend %q", config.ErrInvalidConfig, c.Session.Backend)
}

// RunApp выполняет одну команду
func (a *Application) RunApp(ctx context.Context, args []string) error {
	logrus.WithField("base_url", a.Config.API.BaseURL).Debug("app start")

	err := a.Handler.Run(ctx, args)
	logrus.Debug("app done")
	return err
}

func (a *Application) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
