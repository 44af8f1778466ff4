package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"tireshop/internal/domain"
	"tireshop/internal/repos"
	"tireshop/internal/validate"
)

// Notifier delivers a formatted order summary to the managers' chat.
type Notifier interface {
	Notify(text string) error
}

type OrderService struct {
	Orders   *repos.OrderRepo
	Notifier Notifier
}

func NewOrderService(orders *repos.OrderRepo, n Notifier) *OrderService {
	return &OrderService{Orders: orders, Notifier: n}
}

// Submit persists the order first, then attempts notification. A failed
// notification never rolls the order back: it comes back as notifyErr
// next to a valid order number.
func (s *OrderService) Submit(req domain.OrderRequest) (orderID int64, notifyErr error, err error) {
	req.PaymentMethod = validate.PaymentMethod(req.PaymentMethod)

	payload, err := json.Marshal(req)
	if err != nil {
		return 0, nil, err
	}

	var userID *int64
	if req.UserID != 0 {
		userID = &req.UserID
	}

	orderID, err = s.Orders.Insert(userID, string(payload), req.PaymentMethod)
	if err != nil {
		return 0, nil, err
	}

	if s.Notifier != nil {
		if nerr := s.Notifier.Notify(FormatOrder(orderID, req)); nerr != nil {
			notifyErr = &domain.NotificationError{Err: nerr}
		}
	}
	return orderID, notifyErr, nil
}

// FormatOrder renders the human-readable summary sent to the orders chat.
func FormatOrder(orderID int64, req domain.OrderRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Новый заказ #%d из Mini App\n", orderID)
	if req.FullName != "" {
		fmt.Fprintf(&b, "Покупатель: %s", req.FullName)
		if req.UserID != 0 {
			fmt.Fprintf(&b, " (id=%d)", req.UserID)
		}
		b.WriteString("\n")
	} else if req.UserID != 0 {
		fmt.Fprintf(&b, "Покупатель: id=%d\n", req.UserID)
	}
	if req.Username != "" {
		fmt.Fprintf(&b, "Username: @%s\n", req.Username)
	}
	if req.Phone != "" {
		fmt.Fprintf(&b, "Телефон: %s\n", req.Phone)
	}
	b.WriteString("Товары:\n")
	for _, it := range req.Items {
		fmt.Fprintf(&b, "• %s — %d шт × %d ₽\n", it.Name, it.Qty, it.Price)
	}
	fmt.Fprintf(&b, "Итого: %d ₽\n", req.Total)
	fmt.Fprintf(&b, "Оплата: %s", req.PaymentMethod)
	if req.Comment != "" {
		fmt.Fprintf(&b, "\nКомментарий: %s", req.Comment)
	}
	return b.String()
}
