package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Pool son los límites de database/sql para cada binario.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

var (
	// ServerPool: el bot de gateway, un solo proceso largo.
	ServerPool = Pool{MaxOpen: 10, MaxIdle: 5, MaxLifetime: time.Hour}
	// LambdaPool: muchas instancias chicas contra el mismo Postgres.
	LambdaPool = Pool{MaxOpen: 4, MaxIdle: 2, MaxLifetime: 30 * time.Minute}
)

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxLifetime(p.MaxLifetime)
}

// Open abre el catálogo con pgx (database/sql) y no vuelve hasta que el ping contesta.
func Open(ctx context.Context, url string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	pool.apply(db)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	return db, nil
}

// Migrate lleva el esquema del catálogo a la última versión embebida.
// goose registra lo aplicado en goose_db_version, así que correrla de nuevo no cambia nada.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(log.StandardLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("catalog version: %w", err)
	}
	log.WithField("version", v).Info("catalog schema up to date")
	return nil
}
