package ds

import "sort"

// StatusCount количество заказов в одном статусе
type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Statistics агрегаты считает сервер, клиент их только показывает
type Statistics struct {
	TotalOrders  int                    `json:"total_orders"`
	TotalAmount  float64                `json:"total_amount"`
	StatusCounts map[string]StatusCount `json:"status_counts"`
}

// SortedStatusKeys ключи status_counts в порядке жизненного цикла,
// неизвестные ключи в конце по алфавиту
func (s Statistics) SortedStatusKeys() []string {
	keys := make([]string, 0, len(s.StatusCounts))
	for k := range s.StatusCounts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := Status(keys[i]).Rank(), Status(keys[j]).Rank()
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		case ri >= 0:
			return true
		case rj >= 0:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}
