package ds

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const orderDateLayout = "02.01.2006 15:04"

// Order заказ в том виде, в котором его отдает сервер.
// Клиент не хранит заказы, каждый экран получает их заново.
type Order struct {
	ID                  int64   `json:"id"`
	OrderNumber         string  `json:"order_number"`
	ClientName          string  `json:"client_name"`
	ClientPhone         string  `json:"client_phone"`
	Status              Status  `json:"status"`
	StatusDisplay       string  `json:"status_display"`
	ManagerName         string  `json:"manager_name"`
	CourierName         *string `json:"courier_name"`
	WasherName          *string `json:"washer_name"`
	WasherAssistantName *string `json:"washer_assistant_name"`
	TotalAmount         string  `json:"total_amount"` // десятичное число строкой, для вывода не парсится
	ItemsCount          int     `json:"items_count"`
	CreatedAt           string  `json:"created_at"`
	PickupDate          *string `json:"pickup_date"`
	DeliveryDate        *string `json:"delivery_date"`
}

// Amount сумма заказа числом, только для агрегации
func (o Order) Amount() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(o.TotalAmount), 64)
	if err != nil {
		return 0, fmt.Errorf("order %s: bad total_amount %q: %w", o.OrderNumber, o.TotalAmount, err)
	}
	return v, nil
}

// CreatedAtDisplay дата создания в формате дд.мм.гггг чч:мм
func (o Order) CreatedAtDisplay() string {
	return FormatDate(o.CreatedAt)
}

// FormatDate переводит ISO-8601 дату сервера в формат для экрана.
// Нераспознанная строка возвращается как есть.
func FormatDate(raw string) string {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return t.Format(orderDateLayout)
}

// FindOrder ищет заказ по id в полученном списке
func FindOrder(orders []Order, id int64) (Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// TotalAmount сумма по списку заказов
func TotalAmount(orders []Order) (float64, error) {
	var total float64
	for _, o := range orders {
		v, err := o.Amount()
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
