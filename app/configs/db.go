package configs

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func (e ENV) DSN() string {
	if e.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			e.DBHost, e.DBPort, e.DBUser, e.DBPassword, e.DBName, e.DBSSLMode)
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBPort,
		e.DBName,
	)
}

func (e ENV) dialector() (gorm.Dialector, error) {
	switch e.DBDriver {
	case "mysql":
		return mysql.Open(e.DSN()), nil
	case "postgres":
		return postgres.Open(e.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want mysql or postgres)", e.DBDriver)
	}
}

func GormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func GormConfig(e ENV) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(GormLogLevel(e.DBLogLevel)),
		TranslateError: true,
	}
}

// OpenConnection dials the configured database, retrying until it answers a ping.
func OpenConnection(e ENV, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := e.dialector()
	if err != nil {
		return nil, err
	}

	maxRetries := e.DBMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.Info("connecting to database",
			zap.String("driver", e.DBDriver),
			zap.String("host", e.DBHost),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries))

		db, err := gorm.Open(dialector, GormConfig(e))
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					sqlDB.SetMaxIdleConns(10)
					sqlDB.SetMaxOpenConns(100)
					sqlDB.SetConnMaxLifetime(time.Hour)
					log.Info("database connection established")
					return db, nil
				}
			}
			lastErr = pingErr
			log.Warn("failed to ping database", zap.Error(pingErr), zap.Duration("retry_in", e.DBRetryDelay))
		} else {
			lastErr = err
			log.Warn("failed to open gorm connection", zap.Error(err), zap.Duration("retry_in", e.DBRetryDelay))
		}

		if i < maxRetries-1 {
			time.Sleep(e.DBRetryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", maxRetries, lastErr)
}
