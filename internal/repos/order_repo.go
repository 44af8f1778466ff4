package repos

import (
	"tireshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Insert persists an order and returns its number. userID may be nil for
// orders submitted without a Telegram identity.
func (r *OrderRepo) Insert(userID *int64, payload, paymentMethod string) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO orders(user_id, payload, payment_method)
	  VALUES(?, ?, ?)
	`, userID, payload, paymentMethod)
	if err != nil {
		return 0, domain.Storage("orders.insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.Storage("orders.insert", err)
	}
	return id, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT id, user_id, payload, payment_method, created_at
	  FROM orders
	  ORDER BY id DESC
	  LIMIT ?
	`, limit)
	if err != nil {
		return nil, domain.Storage("orders.list", err)
	}
	return out, nil
}
