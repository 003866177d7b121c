package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/entity"
	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/repository"
)

// UserRepository persists the user aggregate across the users, accounts,
// cards, features and news tables. Ownership is enforced with foreign keys
// and ON DELETE CASCADE; accounts.number and cards.number carry unique
// indexes as the storage backstop to the service-level pre-check.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, u := range users {
		if err := r.loadOwned(ctx, u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `SELECT id, name FROM users WHERE id = $1`, id)
	if err := row.Scan(&u.ID, &u.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	if err := r.loadOwned(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ExistsByAccountNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE number = $1)`, number).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByCardNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cards WHERE number = $1)`, number).Scan(&exists)
	return exists, err
}

// Save writes the whole aggregate in one transaction. Inserts when the user
// id is zero, overwrites otherwise. Account and card rows are updated in
// place keeping their ids; features and news are replaced wholesale.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if u.ID == 0 {
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (name) VALUES ($1) RETURNING id`, u.Name).Scan(&u.ID); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET name = $1 WHERE id = $2`, u.Name, u.ID); err != nil {
			return nil, err
		}
	}

	if u.Account != nil {
		if err := r.upsertAccount(ctx, tx, u.ID, u.Account); err != nil {
			return nil, err
		}
	}
	if u.Card != nil {
		if err := r.upsertCard(ctx, tx, u.ID, u.Card); err != nil {
			return nil, err
		}
	}
	if err := r.replaceFeatures(ctx, tx, u.ID, u.Features); err != nil {
		return nil, err
	}
	if err := r.replaceNews(ctx, tx, u.ID, u.News); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, u *entity.User) error {
	// children go with the user via ON DELETE CASCADE
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	return err
}

func (r *UserRepository) loadOwned(ctx context.Context, u *entity.User) error {
	a := &entity.Account{}
	row := r.pool.QueryRow(ctx,
		`SELECT id, number, agency, balance, account_limit FROM accounts WHERE user_id = $1`, u.ID)
	switch err := row.Scan(&a.ID, &a.Number, &a.Agency, &a.Balance, &a.Limit); {
	case err == nil:
		u.Account = a
	case errors.Is(err, pgx.ErrNoRows):
		u.Account = nil
	default:
		return err
	}

	c := &entity.Card{}
	row = r.pool.QueryRow(ctx,
		`SELECT id, number, card_limit FROM cards WHERE user_id = $1`, u.ID)
	switch err := row.Scan(&c.ID, &c.Number, &c.Limit); {
	case err == nil:
		u.Card = c
	case errors.Is(err, pgx.ErrNoRows):
		u.Card = nil
	default:
		return err
	}

	features, err := r.loadItems(ctx, `SELECT id, icon, description FROM features WHERE user_id = $1 ORDER BY id`, u.ID)
	if err != nil {
		return err
	}
	u.Features = make([]entity.Feature, 0, len(features))
	for _, it := range features {
		u.Features = append(u.Features, entity.Feature(it))
	}

	news, err := r.loadItems(ctx, `SELECT id, icon, description FROM news WHERE user_id = $1 ORDER BY id`, u.ID)
	if err != nil {
		return err
	}
	u.News = make([]entity.News, 0, len(news))
	for _, it := range news {
		u.News = append(u.News, entity.News(it))
	}
	return nil
}

type ownedItem struct {
	ID          int64
	Icon        string
	Description string
}

func (r *UserRepository) loadItems(ctx context.Context, query string, userID int64) ([]ownedItem, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ownedItem, 0)
	for rows.Next() {
		var it ownedItem
		if err := rows.Scan(&it.ID, &it.Icon, &it.Description); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *UserRepository) upsertAccount(ctx context.Context, tx pgx.Tx, userID int64, a *entity.Account) error {
	return tx.QueryRow(ctx, `
		INSERT INTO accounts (user_id, number, agency, balance, account_limit)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET number = EXCLUDED.number, agency = EXCLUDED.agency,
		    balance = EXCLUDED.balance, account_limit = EXCLUDED.account_limit
		RETURNING id
	`, userID, a.Number, a.Agency, a.Balance, a.Limit).Scan(&a.ID)
}

func (r *UserRepository) upsertCard(ctx context.Context, tx pgx.Tx, userID int64, c *entity.Card) error {
	return tx.QueryRow(ctx, `
		INSERT INTO cards (user_id, number, card_limit)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET number = EXCLUDED.number, card_limit = EXCLUDED.card_limit
		RETURNING id
	`, userID, c.Number, c.Limit).Scan(&c.ID)
}

func (r *UserRepository) replaceFeatures(ctx context.Context, tx pgx.Tx, userID int64, features []entity.Feature) error {
	if _, err := tx.Exec(ctx, `DELETE FROM features WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i := range features {
		f := &features[i]
		if err := tx.QueryRow(ctx, `
			INSERT INTO features (user_id, icon, description)
			VALUES ($1, $2, $3)
			RETURNING id
		`, userID, f.Icon, f.Description).Scan(&f.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) replaceNews(ctx context.Context, tx pgx.Tx, userID int64, news []entity.News) error {
	if _, err := tx.Exec(ctx, `DELETE FROM news WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for i := range news {
		n := &news[i]
		if err := tx.QueryRow(ctx, `
			INSERT INTO news (user_id, icon, description)
			VALUES ($1, $2, $3)
			RETURNING id
		`, userID, n.Icon, n.Description).Scan(&n.ID); err != nil {
			return err
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
