package repos

import (
	"tireshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

// Upsert registers an admin. Re-registering the same user id just
// refreshes the stored username.
func (r *AdminRepo) Upsert(userID int64, username string) error {
	_, err := r.db.Exec(`
	  INSERT INTO admins(user_id, username) VALUES(?, ?)
	  ON CONFLICT(user_id) DO UPDATE SET username = excluded.username
	`, userID, username)
	return domain.Storage("admins.upsert", err)
}

func (r *AdminRepo) List() ([]domain.AdminAccount, error) {
	var out []domain.AdminAccount
	if err := r.db.Select(&out, `SELECT user_id, username FROM admins`); err != nil {
		return nil, domain.Storage("admins.list", err)
	}
	return out, nil
}
