package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/bugtracker-api/internal/config"
	"github.com/yukikurage/bugtracker-api/internal/logger"
	"github.com/yukikurage/bugtracker-api/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "mysql":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.DBUser,
				cfg.DBPassword,
				cfg.DBHost,
				cfg.DBPort,
				cfg.DBName,
			)
		}
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				cfg.DBHost,
				cfg.DBPort,
				cfg.DBUser,
				cfg.DBPassword,
				cfg.DBName,
			)
		}
		dialector = postgres.Open(dsn)
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "bugtracker.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Str("driver", cfg.DBDriver).Msg("database connection established")
	return nil
}

func Migrate() error {
	logger.Info().Msg("running database migrations")
	err := DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Team{},
		&models.TeamMember{},
		&models.Invitation{},
		&models.Bug{},
		&models.Todo{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info().Msg("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
