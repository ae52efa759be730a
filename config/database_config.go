package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

type Database struct {
	*sqlx.DB
}

// NewDatabaseConnection : открывает пул и проверяет соединение пингом
func NewDatabaseConnection(driver string, cfg *DatabaseConfig) (*Database, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("[Config] не задан databaseConfig.dsn (DATABASE_DSN)")
	}

	database, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("[Config] ошибка подключения к БД: %w", err)
	}

	database.SetMaxOpenConns(cfg.MaxOpenConns)
	database.SetMaxIdleConns(cfg.MaxIdleConns)
	database.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("[Config] ошибка пинга БД: %w", err)
	}

	log.Println("подключение к БД выполнено")
	return &Database{database}, nil
}

func (db *Database) Close() error {
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("[Config] ошибка закрытия соединения с БД: %w", err)
	}
	return nil
}
