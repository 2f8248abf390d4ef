package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type table struct {
	name string
	ddl  string
}

// tables are listed in dependency order.
var tables = []table{
	{"users", `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            login TEXT NOT NULL,
            email TEXT NOT NULL,
            password TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('performer','customer','admin')),
            is_active BOOLEAN DEFAULT TRUE,
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE UNIQUE INDEX IF NOT EXISTS users_login_lower ON users (lower(login));
        CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower ON users (lower(email));`},
	{"content_items", `
        CREATE TABLE IF NOT EXISTS content_items (
            id UUID PRIMARY KEY,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'publish',
            author_id UUID REFERENCES users(id) ON DELETE CASCADE,
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_content_items_type ON content_items(type);`},
	{"content_meta", `
        CREATE TABLE IF NOT EXISTS content_meta (
            item_id UUID NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
            meta_key TEXT NOT NULL,
            meta_value TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (item_id, meta_key)
        );`},
	{"terms", `
        CREATE TABLE IF NOT EXISTS terms (
            id UUID PRIMARY KEY,
            taxonomy TEXT NOT NULL,
            name TEXT NOT NULL,
            slug TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            UNIQUE (taxonomy, name)
        );`},
	{"term_assignments", `
        CREATE TABLE IF NOT EXISTS term_assignments (
            item_id UUID NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
            term_id UUID NOT NULL REFERENCES terms(id) ON DELETE CASCADE,
            taxonomy TEXT NOT NULL,
            PRIMARY KEY (item_id, term_id)
        );`},
	{"performers", `
        CREATE TABLE IF NOT EXISTS performers (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            content_id UUID REFERENCES content_items(id) ON DELETE SET NULL,
            stage_name TEXT NOT NULL,
            tier TEXT NOT NULL CHECK (tier IN ('free','pro')),
            hourly_rate NUMERIC(10,2) NOT NULL,
            deposit_percentage INTEGER NOT NULL CHECK (deposit_percentage BETWEEN 0 AND 100),
            achievement_level TEXT NOT NULL,
            achievement_score INTEGER NOT NULL DEFAULT 0,
            profile_completeness INTEGER NOT NULL DEFAULT 0,
            completed_bookings INTEGER NOT NULL DEFAULT 0,
            average_rating NUMERIC(3,2) NOT NULL DEFAULT 0,
            total_reviews INTEGER NOT NULL DEFAULT 0,
            verified BOOLEAN NOT NULL DEFAULT FALSE,
            featured BOOLEAN NOT NULL DEFAULT FALSE,
            status TEXT NOT NULL DEFAULT 'active',
            city TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL DEFAULT '',
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );`},
	{"performer_availability", `
        CREATE TABLE IF NOT EXISTS performer_availability (
            performer_id UUID NOT NULL REFERENCES performers(id) ON DELETE CASCADE,
            date DATE NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('available','blocked')),
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            PRIMARY KEY (performer_id, date)
        );`},
	{"customers", `
        CREATE TABLE IF NOT EXISTS customers (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            company TEXT NOT NULL DEFAULT '',
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );`},
	{"microsites", `
        CREATE TABLE IF NOT EXISTS microsites (
            id UUID PRIMARY KEY,
            performer_id UUID NOT NULL UNIQUE REFERENCES performers(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            slug TEXT NOT NULL UNIQUE,
            template TEXT NOT NULL,
            accent_color TEXT NOT NULL,
            design JSONB NOT NULL DEFAULT '{}',
            view_count INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'published',
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );`},
	{"bookings", `
        CREATE TABLE IF NOT EXISTS bookings (
            id UUID PRIMARY KEY,
            performer_id UUID NOT NULL REFERENCES performers(id) ON DELETE CASCADE,
            performer_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            customer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            event_name TEXT NOT NULL,
            event_type TEXT NOT NULL,
            event_location TEXT NOT NULL DEFAULT '',
            event_date TIMESTAMP WITH TIME ZONE NOT NULL,
            hours INTEGER NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('pending','confirmed','in_progress','completed','cancelled','disputed')),
            escrow_status TEXT NOT NULL CHECK (escrow_status IN ('pending','deposit_held','full_held','released','refunded')),
            total_amount NUMERIC(12,2) NOT NULL,
            deposit_amount NUMERIC(12,2) NOT NULL,
            remaining_amount NUMERIC(12,2) NOT NULL,
            commission_amount NUMERIC(12,2) NOT NULL,
            payout_amount NUMERIC(12,2) NOT NULL,
            deposit_paid BOOLEAN NOT NULL DEFAULT FALSE,
            fully_paid BOOLEAN NOT NULL DEFAULT FALSE,
            payout_date TIMESTAMP WITH TIME ZONE NULL,
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status);`},
	{"transactions", `
        CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY,
            booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
            type TEXT NOT NULL CHECK (type IN ('deposit','balance','payout','refund')),
            amount NUMERIC(12,2) NOT NULL,
            payer_id UUID NULL,
            payee_id UUID NULL,
            status TEXT NOT NULL,
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_transactions_booking ON transactions(booking_id, created_at);`},
	{"reviews", `
        CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            booking_id UUID NOT NULL UNIQUE REFERENCES bookings(id) ON DELETE CASCADE,
            reviewer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            reviewee_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            performer_id UUID NOT NULL REFERENCES performers(id) ON DELETE CASCADE,
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            title TEXT NOT NULL,
            content TEXT NOT NULL,
            response TEXT NULL,
            response_at TIMESTAMP WITH TIME ZONE NULL,
            is_flagged BOOLEAN NOT NULL DEFAULT FALSE,
            flag_reason TEXT NULL,
            flagged_at TIMESTAMP WITH TIME ZONE NULL,
            arbitration_status TEXT NULL CHECK (arbitration_status IN ('pending','upheld','removed')),
            resolved_by UUID NULL,
            resolved_at TIMESTAMP WITH TIME ZONE NULL,
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_reviews_arbitration ON reviews(arbitration_status) WHERE is_flagged;`},
	{"market_events", `
        CREATE TABLE IF NOT EXISTS market_events (
            id UUID PRIMARY KEY,
            content_id UUID NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
            customer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category_term_id UUID NULL REFERENCES terms(id) ON DELETE SET NULL,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            duration_hours INTEGER NOT NULL DEFAULT 0,
            budget_min NUMERIC(12,2) NOT NULL,
            budget_max NUMERIC(12,2) NOT NULL,
            event_date TIMESTAMP WITH TIME ZONE NOT NULL,
            bid_deadline TIMESTAMP WITH TIME ZONE NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('open','closed','booked')),
            total_bids INTEGER NOT NULL DEFAULT 0,
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL
        );`},
	{"market_bids", `
        CREATE TABLE IF NOT EXISTS market_bids (
            id UUID PRIMARY KEY,
            event_id UUID NOT NULL REFERENCES market_events(id) ON DELETE CASCADE,
            performer_id UUID NOT NULL REFERENCES performers(id) ON DELETE CASCADE,
            performer_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount NUMERIC(12,2) NOT NULL,
            message TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL CHECK (status IN ('pending','accepted','rejected','expired','withdrawn')),
            is_demo BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL,
            UNIQUE (event_id, performer_id)
        );`},
	{"notifications", `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT,
            reference TEXT NULL,
            metadata JSONB NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;`},
}

// EnsureSchema creates any missing table. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, t := range tables {
		if err := ensureTable(ctx, pool, t); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(ctx context.Context, pool *pgxpool.Pool, t table) error {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = $1
        )`, t.name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("schema check for %s: %w", t.name, err)
	}
	if exists {
		return nil
	}
	if _, err := pool.Exec(ctx, t.ddl); err != nil {
		return fmt.Errorf("create %s: %w", t.name, err)
	}
	log.Printf("%s table ensured", t.name)
	return nil
}

// DemoTables lists every table carrying an is_demo tag, children first.
func DemoTables() []string {
	return []string{
		"market_bids", "market_events", "reviews", "transactions", "bookings",
		"microsites", "customers", "performer_availability", "performers",
		"content_items", "terms", "users",
	}
}
