package repos

import (
	"tireshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Insert(name string, price int64, image, description, specsJSON string) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO products(name, price, image, description, specs)
	  VALUES(?, ?, ?, ?, ?)
	`, name, price, image, description, specsJSON)
	if err != nil {
		return 0, domain.Storage("products.insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.Storage("products.insert", err)
	}
	return id, nil
}

// List returns products newest first. With includeInactive=false only
// rows still visible in the public storefront are returned.
func (r *ProductRepo) List(includeInactive bool) ([]domain.Product, error) {
	q := `
	  SELECT id, name, price, image, description, specs, active, created_at
	  FROM products`
	if !includeInactive {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY id DESC`

	var out []domain.Product
	if err := r.db.Select(&out, q); err != nil {
		return nil, domain.Storage("products.list", err)
	}
	return out, nil
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id, name, price, image, description, specs, active, created_at
	  FROM products WHERE id = ?
	`, id)
	if err != nil {
		return domain.Product{}, domain.Storage("products.get", err)
	}
	return p, nil
}

// SetActive toggles the soft-delete flag. Unknown ids are a no-op.
func (r *ProductRepo) SetActive(id int64, active bool) error {
	_, err := r.db.Exec(`UPDATE products SET active = ? WHERE id = ?`, active, id)
	return domain.Storage("products.set_active", err)
}
