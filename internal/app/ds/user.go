package ds

import "adalcrm/internal/app/role"

// User сотрудник, под которым открыта сессия
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	Role       role.Role `json:"role"`
	IsActive   bool      `json:"is_active"`
	DateJoined string    `json:"date_joined"`
	FullName   string    `json:"full_name"`
}

// DisplayName полное имя, а если его нет - логин
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u User) ActiveLabel() string {
	if u.IsActive {
		return "Активен"
	}
	return "Неактивен"
}
