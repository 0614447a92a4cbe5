package ds

import (
	"encoding/json"
	"fmt"
)

// Status этап жизненного цикла заказа
type Status string

const (
	StatusCreated          Status = "created"
	StatusAssigned         Status = "assigned"
	StatusPickedUp         Status = "picked_up"
	StatusInWashing        Status = "in_washing"
	StatusWashed           Status = "washed"
	StatusDriedAndPacked   Status = "dried_and_packed"
	StatusReadyForDelivery Status = "ready_for_delivery"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
)

// Statuses все статусы в порядке прохождения заказа, отмена в конце
var Statuses = []Status{
	StatusCreated,
	StatusAssigned,
	StatusPickedUp,
	StatusInWashing,
	StatusWashed,
	StatusDriedAndPacked,
	StatusReadyForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// Rank позиция статуса в жизненном цикле, -1 для неизвестного
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Terminal доставленный и отмененный заказы дальше не двигаются
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus разбирает статус из строки
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", v)
	}
	return s, nil
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
