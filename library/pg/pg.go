package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tarikcelik1/microservice-personnel-management/library/yamlenv"
)

type PostgresConfig struct {
	Conn       *yamlenv.Env[string] `yaml:"conn"`
	Migrations *yamlenv.Env[string] `yaml:"migrations"`
}

type Client struct {
	pool *pgxpool.Pool
	conn string
	log  zerolog.Logger
}

func NewPG(ctx context.Context, conn string, log zerolog.Logger) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(conn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	return &Client{
		pool: pool,
		conn: conn,
		log:  log.With().Str("component", "pg").Logger(),
	}, nil
}

func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

func (c *Client) Close() {
	if c != nil && c.pool != nil {
		c.pool.Close()
	}
}

// Migrate накатывает миграции из каталога sourceDir (file source).
// Повторный запуск без новых миграций — no-op.
func (c *Client) Migrate(sourceDir string) error {
	url := c.conn
	switch {
	case strings.HasPrefix(url, "postgresql://"):
		url = "pgx5://" + strings.TrimPrefix(url, "postgresql://")
	case strings.HasPrefix(url, "postgres://"):
		url = "pgx5://" + strings.TrimPrefix(url, "postgres://")
	}

	m, err := migrate.New("file://"+sourceDir, url)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			c.log.Warn().Err(srcErr).Msg("migrate source close")
		}
		if dbErr != nil {
			c.log.Warn().Err(dbErr).Msg("migrate db close")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate.Up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrate.Version: %w", err)
	}

	c.log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")

	return nil
}
