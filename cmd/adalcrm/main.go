package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"adalcrm/internal/app/config"
	"adalcrm/internal/app/handler"
	"adalcrm/internal/pkg"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %s\n", err)
		return 1
	}
	cfg.ConfigureLogger()
	logrus.SetOutput(os.Stderr)

	app, err := pkg.NewApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %s\n", handler.ErrorMessage(err))
		return 1
	}
	defer app.Close()

	app.Handler.Color = isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""

	if err = app.RunApp(ctx, args); err != nil {
		app.Handler.ErrorHandler(err)
		return 1
	}
	return 0
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
