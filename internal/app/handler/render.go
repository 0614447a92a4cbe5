package handler

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/lifecycle"
)

const ansiReset = "\033[0m"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orDashPtr(s *string) string {
	if s == nil {
		return "-"
	}
	return orDash(*s)
}

// statusLabel подпись статуса, с цветом если терминал его поддерживает
func (h *Handler) statusLabel(s ds.Status) string {
	meta := lifecycle.Describe(s)
	if !h.Color {
		return meta.Label
	}
	return meta.Tone.ANSI() + meta.Label + ansiReset
}

func (h *Handler) renderOrders(orders []ds.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(h.Out, "Заказов нет")
		return nil
	}

	tw := newTable(h.Out)
	fmt.Fprintln(tw, "ID\tНомер\tКлиент\tСтатус\tСумма\tВещей\tСоздан")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s ₸\t%d\t%s\n",
			o.ID, o.OrderNumber, o.ClientName, h.statusLabel(o.Status),
			o.TotalAmount, o.ItemsCount, o.CreatedAtDisplay())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(h.Out, "Всего: %d\n", len(orders))
	return nil
}

func (h *Handler) renderOrderDetail(o ds.Order, user ds.User) error {
	tw := newTable(h.Out)
	fmt.Fprintf(tw, "Заказ:\t%s\n", o.OrderNumber)
	fmt.Fprintf(tw, "Статус:\t%s\n", h.statusLabel(o.Status))
	fmt.Fprintf(tw, "Клиент:\t%s\n", o.ClientName)
	fmt.Fprintf(tw, "Телефон:\t%s\n", o.ClientPhone)
	fmt.Fprintf(tw, "Сумма:\t%s ₸\n", o.TotalAmount)
	fmt.Fprintf(tw, "Вещей:\t%d\n", o.ItemsCount)
	fmt.Fprintf(tw, "Менеджер:\t%s\n", orDash(o.ManagerName))
	fmt.Fprintf(tw, "Курьер:\t%s\n", orDashPtr(o.CourierName))
	fmt.Fprintf(tw, "Мойщик:\t%s\n", orDashPtr(o.WasherName))
	fmt.Fprintf(tw, "Помощник:\t%s\n", orDashPtr(o.WasherAssistantName))
	fmt.Fprintf(tw, "Создан:\t%s\n", o.CreatedAtDisplay())
	if o.PickupDate != nil {
		fmt.Fprintf(tw, "Забор:\t%s\n", ds.FormatDate(*o.PickupDate))
	}
	if o.DeliveryDate != nil {
		fmt.Fprintf(tw, "Доставка:\t%s\n", ds.FormatDate(*o.DeliveryDate))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// подсказка только для ролей, которые двигают статусы
	if user.Role.Valid() && !user.Role.Privileged() {
		if t, err := lifecycle.Advance(user.Role, o.Status); err == nil {
			fmt.Fprintf(h.Out, "\n%s -> adalcrm advance %d\n", t.Prompt, o.ID)
		}
	}
	return nil
}

func (h *Handler) renderStatistics(s ds.Statistics) error {
	tw := newTable(h.Out)
	fmt.Fprintf(tw, "Всего заказов:\t%d\n", s.TotalOrders)
	fmt.Fprintf(tw, "Общая сумма:\t%s ₸\n", strconv.FormatFloat(s.TotalAmount, 'f', 2, 64))
	for _, key := range s.SortedStatusKeys() {
		sc := s.StatusCounts[key]
		name := sc.Name
		if name == "" {
			name = lifecycle.Describe(ds.Status(key)).Label
		}
		fmt.Fprintf(tw, "%s:\t%d\n", name, sc.Count)
	}
	return tw.Flush()
}
