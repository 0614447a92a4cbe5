package handler

import (
	"context"
	"errors"
	"fmt"

	"adalcrm/internal/app/ds"
)

var ErrNotLoggedIn = errors.New("вход не выполнен, выполните adalcrm login")

// Login вход по логину и паролю, пароль спрашивается, если не передан флагом
func (h *Handler) Login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	fs.SetOutput(h.Out)
	username := fs.StringP("username", "u", "", "логин")
	password := fs.StringP("password", "p", "", "пароль")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		v, err := h.readLine("Логин: ")
		if err != nil {
			return err
		}
		*username = v
	}
	if *password == "" {
		v, err := h.readLine("Пароль: ")
		if err != nil {
			return err
		}
		*password = v
	}

	user, err := h.API.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	fmt.Fprintf(h.Out, "Добро пожаловать, %s (%s)\n", user.DisplayName(), user.Role.DisplayName())
	return nil
}

func (h *Handler) Logout(ctx context.Context, _ []string) error {
	if err := h.API.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(h.Out, "Вы вышли из системы")
	return nil
}

// Profile данные сотрудника из сохраненной сессии, без запроса к серверу
func (h *Handler) Profile(ctx context.Context, _ []string) error {
	user, err := h.currentUser(ctx)
	if err != nil {
		return err
	}

	tw := newTable(h.Out)
	fmt.Fprintf(tw, "Имя:\t%s\n", user.DisplayName())
	fmt.Fprintf(tw, "Логин:\t%s\n", user.Username)
	fmt.Fprintf(tw, "Роль:\t%s\n", user.Role.DisplayName())
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(user.Email))
	fmt.Fprintf(tw, "Телефон:\t%s\n", orDash(user.Phone))
	fmt.Fprintf(tw, "Статус:\t%s\n", user.ActiveLabel())
	fmt.Fprintf(tw, "В команде с:\t%s\n", ds.FormatDate(user.DateJoined))
	if exp, ok := h.Session.TokenExpiry(ctx); ok {
		fmt.Fprintf(tw, "Токен до:\t%s\n", exp.Local().Format("02.01.2006 15:04"))
	}
	return tw.Flush()
}

func (h *Handler) currentUser(ctx context.Context) (ds.User, error) {
	user, ok := h.Session.CurrentUser(ctx)
	if !ok {
		return ds.User{}, ErrNotLoggedIn
	}
	return user, nil
}
