package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/lifecycle"

	"github.com/sirupsen/logrus"
)

// API операции клиента, которые нужны командам
type API interface {
	Login(ctx context.Context, username, password string) (ds.User, error)
	Logout(ctx context.Context) error
	FetchOrders(ctx context.Context) ([]ds.Order, error)
	FetchOrder(ctx context.Context, id int64) (ds.Order, error)
	AdvanceOrder(ctx context.Context, order ds.Order, notes string) (ds.Order, error)
	FetchStatistics(ctx context.Context) (ds.Statistics, error)
}

// Session только чтение текущей сессии
type Session interface {
	CurrentUser(ctx context.Context) (ds.User, bool)
	TokenExpiry(ctx context.Context) (time.Time, bool)
}

var ErrUnknownCommand = errors.New("неизвестная команда")

type Handler struct {
	API     API
	Session Session

	Out   io.Writer
	In    *bufio.Reader
	Color bool

	commands map[string]*Command
	order    []string
}

func NewHandler(api API, sess Session, in io.Reader, out io.Writer) *Handler {
	h := &Handler{
		API:     api,
		Session: sess,
		Out:     out,
		In:      bufio.NewReader(in),
	}
	h.RegisterCommands()
	return h
}

// Run выполняет команду из args[0]
func (h *Handler) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		h.printUsage()
		return nil
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		h.printUsage()
		return nil
	}

	cmd, ok := h.commands[name]
	if !ok {
		h.printUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	logrus.WithField("command", name).Debug("running command")
	return cmd.Run(ctx, args[1:])
}

// ErrorMessage текст ошибки для пользователя
func ErrorMessage(err error) string {
	var notAllowed *lifecycle.NotAllowedError
	if errors.As(err, &notAllowed) {
		return notAllowed.Message()
	}

	var msg interface{ Message() string }
	if errors.As(err, &msg) && msg.Message() != "" {
		return msg.Message()
	}
	return err.Error()
}

// Централизованный вывод ошибок
func (h *Handler) ErrorHandler(err error) {
	logrus.WithError(err).Debug("command failed")
	fmt.Fprintf(h.Out, "Ошибка: %s\n", ErrorMessage(err))
}

func (h *Handler) readLine(prompt string) (string, error) {
	fmt.Fprint(h.Out, prompt)
	line, err := h.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (h *Handler) printUsage() {
	fmt.Fprintln(h.Out, "Использование: adalcrm <команда> [флаги]")
	fmt.Fprintln(h.Out)
	for _, name := range h.order {
		cmd := h.commands[name]
		fmt.Fprintf(h.Out, "  %-32s %s\n", cmd.Usage, cmd.Summary)
	}
}
