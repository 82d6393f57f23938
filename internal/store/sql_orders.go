package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/bhargavi35/storefront/internal/domain"
)

// SQLOrderStore implements OrderStore on top of Postgres or SQLite.
// Orders are append-only; the order counter is the row count.
type SQLOrderStore struct {
	db *sqlx.DB
}

func NewPostgresOrderStore(dsn, migrationsDir string) (*SQLOrderStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)

	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}
	if err := runMigrations(migrationsDir, "postgres", driver); err != nil {
		return nil, err
	}

	return &SQLOrderStore{db: db}, nil
}

func NewSQLiteOrderStore(path, migrationsDir string) (*SQLOrderStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}
	if err := runMigrations(migrationsDir, "sqlite", driver); err != nil {
		return nil, err
	}

	return &SQLOrderStore{db: db}, nil
}

func runMigrations(dir, databaseName string, driver database.Driver) error {
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", dir), databaseName, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (s *SQLOrderStore) AppendOrder(ctx context.Context, order *domain.Order) (int64, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`INSERT INTO orders (id, user_id, items, total, discount_code, discount_amount, final_amount, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		itemsJSON,
		order.Total,
		nullString(order.DiscountCode),
		order.DiscountAmount,
		order.FinalAmount,
		order.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	var count int64
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return count, nil
}

func (s *SQLOrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT id, user_id, items, total, discount_code, discount_amount, final_amount, created_at
	          FROM orders ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			order        domain.Order
			itemsJSON    []byte
			discountCode sql.NullString
			createdAt    time.Time
		)
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&itemsJSON,
			&order.Total,
			&discountCode,
			&order.DiscountAmount,
			&order.FinalAmount,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		order.DiscountCode = discountCode.String
		order.CreatedAt = createdAt
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (s *SQLOrderStore) OrderCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (s *SQLOrderStore) Close() error {
	return s.db.Close()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
