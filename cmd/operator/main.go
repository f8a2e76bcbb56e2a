// Command operator creates a back-office operator or resets an existing one's
// password.
//
//	operator -username jane -name "Jane Doe" -password secret123
//
// The password may also come from OPERATOR_PASSWORD so it stays out of shell history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/config"
	"github.com/mt5crm/backoffice/internal/database"
	"github.com/mt5crm/backoffice/internal/logger"
	"github.com/mt5crm/backoffice/internal/services"
)

func main() {
	username := flag.String("username", "", "operator login name")
	name := flag.String("name", "", "display name recorded on withdrawals (defaults to username)")
	password := flag.String("password", os.Getenv("OPERATOR_PASSWORD"), "operator password")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.InitDB(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	auth := services.NewAuthService(db, nil, cfg.JWT, cfg.Argon2, log)
	op, err := auth.UpsertOperator(ctx, *username, *name, *password)
	if err != nil {
		log.Fatal("failed to save operator", zap.Error(err))
	}

	fmt.Printf("operator %q saved (id %d)\n", op.Username, op.ID)
}
