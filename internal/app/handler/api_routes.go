package handler

import (
	"context"

	"github.com/spf13/pflag"
)

type Command struct {
	Name    string
	Usage   string
	Summary string
	Run     func(ctx context.Context, args []string) error
}

// RegisterCommands регистрирует все команды CLI
func (h *Handler) RegisterCommands() {
	h.commands = make(map[string]*Command)
	h.order = nil

	// Сессия
	h.register("login", "login -u USER [-p PASS]", "вход в систему", h.Login)
	h.register("logout", "logout", "выход из системы", h.Logout)
	h.register("profile", "profile", "профиль текущего сотрудника", h.Profile)

	// Заказы
	h.register("orders", "orders", "список заказов для вашей роли", h.Orders)
	h.register("order", "order ID", "карточка заказа", h.Order)
	h.register("advance", "advance ID [--notes TEXT] [--yes]", "перевести заказ на следующий статус", h.Advance)
	h.register("transitions", "transitions", "какие переходы доступны вашей роли", h.Transitions)

	// Статистика
	h.register("stats", "stats", "статистика по заказам", h.Stats)
	h.register("dashboard", "dashboard", "заказы и статистика одним экраном", h.Dashboard)
}

func (h *Handler) register(name, usage, summary string, run func(ctx context.Context, args []string) error) {
	h.commands[name] = &Command{Name: name, Usage: usage, Summary: summary, Run: run}
	h.order = append(h.order, name)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}
