package role

import (
	"encoding/json"
	"fmt"
)

// Role должность сотрудника, определяет доступные заказы, эндпоинты и переходы статусов
type Role string

const (
	Director        Role = "director"
	Manager         Role = "manager"
	Courier         Role = "courier"
	Washer          Role = "washer"
	WasherAssistant Role = "washer_assistant"
)

// All все роли в порядке иерархии
var All = []Role{Director, Manager, Courier, Washer, WasherAssistant}

// Parse разбирает роль из строки, пришедшей с сервера
func Parse(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case Director, Manager, Courier, Washer, WasherAssistant:
		return true
	}
	return false
}

// Privileged директор и менеджер видят все заказы
func (r Role) Privileged() bool {
	return r == Director || r == Manager
}

// DisplayName название роли для профиля
func (r Role) DisplayName() string {
	switch r {
	case Director:
		return "Директор"
	case Manager:
		return "Менеджер"
	case Courier:
		return "Курьер"
	case Washer:
		return "Мойщик"
	case WasherAssistant:
		return "Помощник мойщика"
	}
	return string(r)
}

// Icon имя символьной иконки роли
func (r Role) Icon() string {
	switch r {
	case Director:
		return "person.3"
	case Manager:
		return "clipboard"
	case Courier:
		return "car"
	case Washer:
		return "drop"
	case WasherAssistant:
		return "person.badge.plus"
	}
	return "person"
}

func (r Role) String() string {
	return string(r)
}

// UnmarshalJSON не пропускает неизвестные роли
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
