package apitest

import (
	"bytes"
	"fmt"
	"io"

	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/lifecycle"
	"adalcrm/internal/app/role"
)

func newBody(data []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(data))
}

func strPtr(s string) *string {
	return &s
}

// SeedUsers по одному активному сотруднику на роль, username совпадает с ролью
func SeedUsers() []ds.User {
	return []ds.User{
		{ID: 1, Username: "director", Email: "director@adal.kz", FirstName: "Айгуль", LastName: "Нурланова", Role: role.Director, IsActive: true, DateJoined: "2023-03-01T09:00:00Z", FullName: "Айгуль Нурланова"},
		{ID: 2, Username: "manager", Email: "manager@adal.kz", FirstName: "Дана", LastName: "Касымова", Role: role.Manager, IsActive: true, DateJoined: "2023-04-12T09:00:00Z", FullName: "Дана Касымова"},
		{ID: 3, Username: "courier", Email: "courier@adal.kz", FirstName: "Ерлан", LastName: "Сапаров", Phone: "+77010000003", Role: role.Courier, IsActive: true, DateJoined: "2024-01-10T09:00:00Z", FullName: "Ерлан Сапаров"},
		{ID: 4, Username: "washer", Email: "washer@adal.kz", FirstName: "Марат", LastName: "Ахметов", Role: role.Washer, IsActive: true, DateJoined: "2024-02-05T09:00:00Z", FullName: "Марат Ахметов"},
		{ID: 5, Username: "washer_assistant", Email: "assistant@adal.kz", FirstName: "", LastName: "", Role: role.WasherAssistant, IsActive: true, DateJoined: "2024-06-20T09:00:00Z", FullName: ""},
	}
}

// SeedOrders по заказу в каждом статусе, id равен позиции статуса в цикле плюс один
func SeedOrders() []ds.Order {
	orders := make([]ds.Order, 0, len(ds.Statuses))
	for i, st := range ds.Statuses {
		id := int64(i + 1)
		o := ds.Order{
			ID:            id,
			OrderNumber:   fmt.Sprintf("ORD-%04d", id),
			ClientName:    fmt.Sprintf("Клиент %d", id),
			ClientPhone:   fmt.Sprintf("+7701555%04d", id),
			Status:        st,
			StatusDisplay: lifecycle.Describe(st).Label,
			ManagerName:   "Дана Касымова",
			TotalAmount:   "1500.00",
			ItemsCount:    i + 1,
			CreatedAt:     fmt.Sprintf("2024-05-%02dT10:30:00Z", id),
		}
		if st.Rank() >= ds.StatusAssigned.Rank() && st != ds.StatusCancelled {
			o.CourierName = strPtr("Ерлан Сапаров")
			o.PickupDate = strPtr("2024-05-10T12:00:00Z")
		}
		if st.Rank() >= ds.StatusInWashing.Rank() && st != ds.StatusCancelled {
			o.WasherName = strPtr("Марат Ахметов")
		}
		if st == ds.StatusDelivered {
			o.DeliveryDate = strPtr("2024-05-12T18:00:00Z")
		}
		orders = append(orders, o)
	}
	return orders
}
