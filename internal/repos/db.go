package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// single writer; also keeps :memory: databases on one connection
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := migrateOrders(db); err != nil {
		return nil, err
	}
	// Seed the demo catalog if the shop is empty (idempotent; safe on every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  price INTEGER NOT NULL CHECK (price > 0),
  image TEXT NOT NULL DEFAULT '🛞',
  description TEXT NOT NULL DEFAULT '',
  specs TEXT NOT NULL DEFAULT '[]',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_active ON products(active);

CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER,
  payload TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS admins(
  user_id INTEGER PRIMARY KEY,
  username TEXT NOT NULL DEFAULT ''
);
`
	_, err := db.Exec(schema)
	return err
}

// migrateOrders adds the payment_method column to databases created before
// payment methods existed.
func migrateOrders(db *sqlx.DB) error {
	var cols []struct {
		Name string `db:"name"`
	}
	if err := db.Select(&cols, `SELECT name FROM pragma_table_info('orders')`); err != nil {
		return err
	}
	for _, c := range cols {
		if c.Name == "payment_method" {
			return nil
		}
	}
	log.Println("[schema] adding orders.payment_method")
	_, err := db.Exec(`ALTER TABLE orders ADD COLUMN payment_method TEXT NOT NULL DEFAULT 'cash'`)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(name,price,image,description,specs) VALUES
	  ('Michelin Latitude',5200,'🛞','Универсальная летняя шина для внедорожников','["Summer","245/60R18","All-Terrain","Speed H"]'),
	  ('Continental WinterContact',4800,'❄️','Зимняя шина с улучшенным сцеплением на льду','["Winter","205/55R16","Ice Grip","Speed T"]'),
	  ('Pirelli Cinturato',3900,'🎯','Экономичная летняя шина для легковых автомобилей','["Summer","195/65R15","Eco","Speed V"]'),
	  ('Goodyear Assurance',4500,'⭐','Премиальная зимняя шина с долгим сроком службы','["Winter","215/60R17","Long Life","Speed H"]'),
	  ('Dunlop SP Sport',3600,'🏁','Спортивная шина для динамичного вождения','["Summer","225/45R17","Performance","Speed W"]'),
	  ('Bridgestone Blizzak',5100,'🌨️','Премиальная зимняя шина японского производства','["Winter","225/50R17","Super Grip","Speed T"]')`)

	return tx.Commit()
}
