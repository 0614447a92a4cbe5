package lifecycle

import "adalcrm/internal/app/ds"

// Tone цветовая группа статуса
type Tone int

const (
	ToneAlert   Tone = iota + 1 // красный: создан, назначен
	ToneSuccess                 // зеленый: от забран до готов к доставке
	ToneNeutral                 // черный: доставлен
	ToneMuted                   // серый: отменен
)

func (t Tone) String() string {
	switch t {
	case ToneAlert:
		return "alert"
	case ToneSuccess:
		return "success"
	case ToneNeutral:
		return "neutral"
	case ToneMuted:
		return "muted"
	}
	return "unknown"
}

// ANSI код цвета терминала
func (t Tone) ANSI() string {
	switch t {
	case ToneAlert:
		return "\033[31m"
	case ToneSuccess:
		return "\033[32m"
	case ToneNeutral:
		return "\033[1m"
	}
	return "\033[90m"
}

// Meta отображение статуса
type Meta struct {
	Label string
	Tone  Tone
}

// Describe подпись и цвет для каждого статуса
func Describe(s ds.Status) Meta {
	switch s {
	case ds.StatusCreated:
		return Meta{Label: "Создан", Tone: ToneAlert}
	case ds.StatusAssigned:
		return Meta{Label: "Назначен", Tone: ToneAlert}
	case ds.StatusPickedUp:
		return Meta{Label: "Забран", Tone: ToneSuccess}
	case ds.StatusInWashing:
		return Meta{Label: "В стирке", Tone: ToneSuccess}
	case ds.StatusWashed:
		return Meta{Label: "Постиран", Tone: ToneSuccess}
	case ds.StatusDriedAndPacked:
		return Meta{Label: "Высушен и упакован", Tone: ToneSuccess}
	case ds.StatusReadyForDelivery:
		return Meta{Label: "Готов к доставке", Tone: ToneSuccess}
	case ds.StatusDelivered:
		return Meta{Label: "Доставлен", Tone: ToneNeutral}
	case ds.StatusCancelled:
		return Meta{Label: "Отменен", Tone: ToneMuted}
	}
	return Meta{Label: string(s), Tone: ToneMuted}
}
