// Package lifecycle решает, может ли сотрудник продвинуть заказ и в какой статус.
// Чистые функции без сети: всё остальное (создание, назначение, отмена)
// делает сервер.
package lifecycle

import (
	"errors"
	"fmt"

	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/role"
)

var ErrNotAllowed = errors.New("status transition not allowed")

const (
	msgNoPermission = "У вас нет прав для обновления статуса"
	msgCannotUpdate = "Невозможно обновить статус"
)

// Transition одна строка таблицы переходов
type Transition struct {
	Role   role.Role
	From   ds.Status
	To     ds.Status
	Prompt string
}

// таблица переходов: роль -> текущий статус -> следующий
var table = map[role.Role]map[ds.Status]Transition{
	role.Courier: {
		ds.StatusAssigned: {
			Role: role.Courier, From: ds.StatusAssigned, To: ds.StatusPickedUp,
			Prompt: "Отметить как забранный?",
		},
		ds.StatusReadyForDelivery: {
			Role: role.Courier, From: ds.StatusReadyForDelivery, To: ds.StatusDelivered,
			Prompt: "Отметить как доставленный?",
		},
	},
	role.Washer: {
		ds.StatusInWashing: {
			Role: role.Washer, From: ds.StatusInWashing, To: ds.StatusWashed,
			Prompt: "Отметить как постиранный?",
		},
	},
	role.WasherAssistant: {
		ds.StatusWashed: {
			Role: role.WasherAssistant, From: ds.StatusWashed, To: ds.StatusDriedAndPacked,
			Prompt: "Отметить как высушенный и упакованный?",
		},
	},
}

// NotAllowedError переход не описан в таблице
type NotAllowedError struct {
	Role   role.Role
	Status ds.Status
	// NoPermission роль вообще не двигает статусы (директор, менеджер)
	NoPermission bool
}

func (e *NotAllowedError) Error() string {
	return e.Message()
}

// Message текст для пользователя
func (e *NotAllowedError) Message() string {
	if e.NoPermission {
		return msgNoPermission
	}
	return msgCannotUpdate
}

func (e *NotAllowedError) Unwrap() error {
	return ErrNotAllowed
}

// Advance находит переход для пары (роль, статус)
func Advance(r role.Role, s ds.Status) (Transition, error) {
	rows, ok := table[r]
	if !ok {
		return Transition{}, &NotAllowedError{Role: r, Status: s, NoPermission: true}
	}
	t, ok := rows[s]
	if !ok {
		return Transition{}, &NotAllowedError{Role: r, Status: s}
	}
	return t, nil
}

func CanAdvance(r role.Role, s ds.Status) bool {
	_, err := Advance(r, s)
	return err == nil
}

// NextStatus единственный статус, в который роль может перевести заказ
func NextStatus(r role.Role, s ds.Status) (ds.Status, error) {
	t, err := Advance(r, s)
	if err != nil {
		return "", err
	}
	return t.To, nil
}

// ConfirmationPrompt вопрос перед сменой статуса
func ConfirmationPrompt(r role.Role, s ds.Status) (string, error) {
	t, err := Advance(r, s)
	if err != nil {
		return "", err
	}
	return t.Prompt, nil
}

// Transitions строки таблицы для роли в порядке жизненного цикла
func Transitions(r role.Role) []Transition {
	rows := table[r]
	out := make([]Transition, 0, len(rows))
	for _, s := range ds.Statuses {
		if t, ok := rows[s]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (t Transition) String() string {
	return fmt.Sprintf("%s: %s -> %s", t.Role, t.From, t.To)
}
