package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sudo-init-do/stagebook/internal/config"
	"github.com/sudo-init-do/stagebook/internal/db"
)

func main() {
	email := flag.String("email", "", "Email of the user to promote to admin")
	configPath := flag.String("config", "", "Optional config file")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run cmd/adminutil/promote_admin/main.go -email user@example.com")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	db.Init(cfg.DB.DSN())
	defer db.Close()

	// Demo accounts are purged on teardown, so they cannot hold the admin role.
	ct, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET role = 'admin', is_active = TRUE WHERE lower(email) = lower($1) AND NOT is_demo`, *email)
	if err != nil {
		log.Fatalf("failed to promote user to admin: %v", err)
	}

	if ct.RowsAffected() == 0 {
		log.Fatalf("no non-demo user found with email: %s", *email)
	}

	fmt.Printf("User %s promoted to admin.\n", *email)
}
