package repo

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/xxxsen/cardkeep/internal/config"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

func init() {
	Register(config.StorePostgres, openSQLStore)
	Register(config.StoreSQLite, openSQLStore)
}

// sqlStore serves both postgres and sqlite. Queries are built with gendry
// and rebound per driver.
type sqlStore struct {
	db      *sqlx.DB
	dialect string
	dir     string
	users   *UserRepo
	cards   *CardRepo
}

func openSQLStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	driver, dialect := "postgres", "postgres"
	if cfg.Type == config.StoreSQLite {
		driver, dialect = "sqlite", "sqlite3"
	}
	db, err := Open(ctx, driver, cfg.URI)
	if err != nil {
		return nil, err
	}
	return NewSQLStore(db, dialect), nil
}

func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// NewSQLStore wraps an open connection. dialect is the goose dialect name and
// picks the migration directory.
func NewSQLStore(db *sqlx.DB, dialect string) Store {
	dir := "migrations/postgres"
	if dialect == "sqlite3" {
		dir = "migrations/sqlite"
	}
	return &sqlStore{
		db:      db,
		dialect: dialect,
		dir:     dir,
		users:   NewUserRepo(db),
		cards:   NewCardRepo(db),
	}
}

func (s *sqlStore) Users() UserStore {
	return s.users
}

func (s *sqlStore) Cards() CardStore {
	return s.cards
}

func (s *sqlStore) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db.DB, s.dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *sqlStore) Close(ctx context.Context) error {
	return s.db.Close()
}
