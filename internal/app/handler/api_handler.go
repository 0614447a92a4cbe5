package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"adalcrm/internal/app/dispatch"
	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/lifecycle"

	"github.com/sirupsen/logrus"
)

const dashboardWorkers = 2

var (
	ErrBadOrderID = errors.New("укажите числовой ID заказа")
	ErrCancelled  = errors.New("действие отменено")
)

// Orders список заказов, каждый раз запрашивается заново
func (h *Handler) Orders(ctx context.Context, _ []string) error {
	orders, err := h.API.FetchOrders(ctx)
	if err != nil {
		return err
	}
	return h.renderOrders(orders)
}

func (h *Handler) Order(ctx context.Context, args []string) error {
	id, err := parseOrderID(args)
	if err != nil {
		return err
	}

	order, err := h.API.FetchOrder(ctx, id)
	if err != nil {
		return err
	}

	user, _ := h.Session.CurrentUser(ctx)
	return h.renderOrderDetail(order, user)
}

// Advance подтверждение и перевод заказа на следующий статус
func (h *Handler) Advance(ctx context.Context, args []string) error {
	fs := newFlagSet("advance")
	fs.SetOutput(h.Out)
	notes := fs.String("notes", "", "комментарий к смене статуса")
	yes := fs.BoolP("yes", "y", false, "не спрашивать подтверждение")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseOrderID(fs.Args())
	if err != nil {
		return err
	}

	user, err := h.currentUser(ctx)
	if err != nil {
		return err
	}

	order, err := h.API.FetchOrder(ctx, id)
	if err != nil {
		return err
	}

	// недоступный переход отсекается до вопроса
	transition, err := lifecycle.Advance(user.Role, order.Status)
	if err != nil {
		return err
	}

	if !*yes {
		answer, err := h.readLine(fmt.Sprintf("%s Заказ %s: %s -> %s [y/N]: ",
			transition.Prompt, order.OrderNumber,
			lifecycle.Describe(transition.From).Label, lifecycle.Describe(transition.To).Label))
		if err != nil {
			return err
		}
		if !confirmed(answer) {
			return ErrCancelled
		}
	}

	updated, err := h.API.AdvanceOrder(ctx, order, *notes)
	if err != nil {
		return err
	}

	fmt.Fprintf(h.Out, "Статус заказа %s обновлен: %s\n", updated.OrderNumber, h.statusLabel(updated.Status))
	return nil
}

// Transitions строки таблицы переходов для роли текущего пользователя
func (h *Handler) Transitions(ctx context.Context, _ []string) error {
	user, err := h.currentUser(ctx)
	if err != nil {
		return err
	}

	rows := lifecycle.Transitions(user.Role)
	if len(rows) == 0 {
		fmt.Fprintf(h.Out, "Роль %s не меняет статусы заказов\n", user.Role.DisplayName())
		return nil
	}

	tw := newTable(h.Out)
	fmt.Fprintln(tw, "Из\tВ\tВопрос")
	for _, t := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", lifecycle.Describe(t.From).Label, lifecycle.Describe(t.To).Label, t.Prompt)
	}
	return tw.Flush()
}

func (h *Handler) Stats(ctx context.Context, _ []string) error {
	stats, err := h.API.FetchStatistics(ctx)
	if err != nil {
		return err
	}
	return h.renderStatistics(stats)
}

// Dashboard заказы и статистика запрашиваются параллельно,
// выводятся по одному: сначала заказы, потом статистика
func (h *Handler) Dashboard(ctx context.Context, _ []string) error {
	var ordersErr, statsErr error

	batch := dispatch.New(dashboardWorkers)
	dispatch.Go(ctx, batch, h.API.FetchOrders, func(orders []ds.Order, err error) {
		if err != nil {
			ordersErr = err
			return
		}
		fmt.Fprintln(h.Out, "== Заказы ==")
		ordersErr = h.renderOrders(orders)
	})
	dispatch.Go(ctx, batch, h.API.FetchStatistics, func(stats ds.Statistics, err error) {
		if err != nil {
			statsErr = err
			return
		}
		fmt.Fprintln(h.Out, "== Статистика ==")
		statsErr = h.renderStatistics(stats)
	})
	batch.Wait()

	if ordersErr != nil && statsErr != nil {
		logrus.WithError(statsErr).Debug("statistics failed too")
	}
	if ordersErr != nil {
		return ordersErr
	}
	return statsErr
}

func parseOrderID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, ErrBadOrderID
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadOrderID
	}
	return id, nil
}

func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}
