// Seeds the protected profile with identity 1. The service refuses to
// create, update or delete that identity, so it has to exist before the
// first real customer signs up; the sequence is bumped so store-assigned
// identities start at 2.
package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/DarieldonMedeiros/santander-bootcamp/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`
		INSERT INTO users (id, name) VALUES (1, 'Santander')
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`); err != nil {
		log.Fatalf("failed to seed protected user: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO accounts (user_id, number, agency, balance, account_limit)
		VALUES (1, '00000000-0', '0001', 0.00, 0.00)
		ON CONFLICT (user_id) DO NOTHING
	`); err != nil {
		log.Fatalf("failed to seed protected account: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO cards (user_id, number, card_limit)
		VALUES (1, 'xxxx xxxx xxxx 0000', 0.00)
		ON CONFLICT (user_id) DO NOTHING
	`); err != nil {
		log.Fatalf("failed to seed protected card: %v", err)
	}

	if _, err := db.Exec(`
		SELECT setval('users_id_seq', GREATEST((SELECT MAX(id) FROM users), 1))
	`); err != nil {
		log.Fatalf("failed to advance users sequence: %v", err)
	}

	fmt.Println("seeded protected user with id=1")
}
