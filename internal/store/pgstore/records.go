package pgstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store"
)

func (s *Store) InsertPerformer(ctx context.Context, p *marketplace.Performer) error {
	id := uuid.NewString()
	err := s.pool.QueryRow(ctx, `
        INSERT INTO performers (
            id, user_id, content_id, stage_name, tier, hourly_rate, deposit_percentage,
            achievement_level, achievement_score, profile_completeness, completed_bookings,
            average_rating, total_reviews, verified, featured, status, city, state, is_demo
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
        RETURNING created_at
    `,
		id, p.UserID, nullable(p.ContentID), p.StageName, string(p.Tier), p.HourlyRate, p.DepositPercentage,
		string(p.AchievementLevel), p.AchievementScore, p.ProfileCompleteness, p.CompletedBookings,
		p.AverageRating, p.TotalReviews, p.Verified, p.Featured, p.Status, p.City, p.State, p.Demo,
	).Scan(&p.CreatedAt)
	if err != nil {
		return mapErr(err, "insert performer")
	}
	p.ID = id
	return nil
}

func (s *Store) PerformerByUser(ctx context.Context, userID string) (marketplace.Performer, error) {
	var p marketplace.Performer
	var contentID *string
	err := s.pool.QueryRow(ctx, `
        SELECT id, user_id, content_id, stage_name, tier, hourly_rate, deposit_percentage,
               achievement_level, achievement_score, profile_completeness, completed_bookings,
               average_rating, total_reviews, verified, featured, status, city, state, is_demo, created_at
        FROM performers WHERE user_id = $1
    `, userID).Scan(
		&p.ID, &p.UserID, &contentID, &p.StageName, &p.Tier, &p.HourlyRate, &p.DepositPercentage,
		&p.AchievementLevel, &p.AchievementScore, &p.ProfileCompleteness, &p.CompletedBookings,
		&p.AverageRating, &p.TotalReviews, &p.Verified, &p.Featured, &p.Status, &p.City, &p.State, &p.Demo, &p.CreatedAt,
	)
	if err != nil {
		return marketplace.Performer{}, mapErr(err, "performer by user")
	}
	if contentID != nil {
		p.ContentID = *contentID
	}
	return p, nil
}

// InsertAvailability writes the slots in one batch; a duplicate day aborts the
// whole batch.
func (s *Store) InsertAvailability(ctx context.Context, slots []marketplace.AvailabilitySlot) error {
	if len(slots) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, sl := range slots {
			batch.Queue(`
                INSERT INTO performer_availability (performer_id, date, status, is_demo)
                VALUES ($1, $2, $3, $4)
            `, sl.PerformerID, sl.Date, string(sl.Status), sl.Demo)
		}
		return mapErr(tx.SendBatch(ctx, batch).Close(), "insert availability")
	})
}

func (s *Store) InsertCustomer(ctx context.Context, c *marketplace.Customer) error {
	id := uuid.NewString()
	err := s.pool.QueryRow(ctx, `
        INSERT INTO customers (id, user_id, company, is_demo)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `, id, c.UserID, c.Company, c.Demo).Scan(&c.CreatedAt)
	if err != nil {
		return mapErr(err, "insert customer")
	}
	c.ID = id
	return nil
}

func (s *Store) HasMicrosite(ctx context.Context, performerID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM microsites WHERE performer_id = $1)
    `, performerID).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "has microsite")
	}
	return exists, nil
}

func (s *Store) MicrositeSlugTaken(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM microsites WHERE slug = $1)
    `, slug).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "microsite slug")
	}
	return exists, nil
}

func (s *Store) InsertMicrosite(ctx context.Context, m *marketplace.Microsite) error {
	id := uuid.NewString()
	err := s.pool.QueryRow(ctx, `
        INSERT INTO microsites (id, performer_id, user_id, slug, template, accent_color, design, view_count, status, is_demo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at
    `, id, m.PerformerID, m.UserID, m.Slug, m.Template, m.AccentColor, m.Design, m.ViewCount, m.Status, m.Demo).Scan(&m.CreatedAt)
	if err != nil {
		return mapErr(err, "insert microsite "+m.Slug)
	}
	m.ID = id
	return nil
}

func (s *Store) InsertBooking(ctx context.Context, b *marketplace.Booking) error {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
        INSERT INTO bookings (
            id, performer_id, performer_user_id, customer_id, event_name, event_type, event_location,
            event_date, hours, status, escrow_status, total_amount, deposit_amount, remaining_amount,
            commission_amount, payout_amount, deposit_paid, fully_paid, payout_date, is_demo, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
    `,
		id, b.PerformerID, b.PerformerUserID, b.CustomerID, b.EventName, b.EventType, b.EventLocation,
		b.EventDate, b.Hours, string(b.Status), string(b.EscrowStatus), b.TotalAmount, b.DepositAmount, b.RemainingAmount,
		b.CommissionAmount, b.PayoutAmount, b.DepositPaid, b.FullyPaid, b.PayoutDate, b.Demo, b.CreatedAt,
	)
	if err != nil {
		return mapErr(err, "insert booking")
	}
	b.ID = id
	return nil
}

func (s *Store) InsertTransaction(ctx context.Context, t *marketplace.Transaction) error {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
        INSERT INTO transactions (id, booking_id, type, amount, payer_id, payee_id, status, is_demo, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, id, t.BookingID, string(t.Type), t.Amount, t.PayerID, t.PayeeID, string(t.Status), t.Demo, t.CreatedAt)
	if err != nil {
		return mapErr(err, "insert transaction")
	}
	t.ID = id
	return nil
}

func (s *Store) InsertReview(ctx context.Context, r *marketplace.Review) error {
	id := uuid.NewString()
	var arbitration *string
	if r.ArbitrationStatus != nil {
		v := string(*r.ArbitrationStatus)
		arbitration = &v
	}
	_, err := s.pool.Exec(ctx, `
        INSERT INTO reviews (
            id, booking_id, reviewer_id, reviewee_id, performer_id, rating, title, content,
            response, response_at, is_flagged, flag_reason, flagged_at, arbitration_status, is_demo, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `,
		id, r.BookingID, r.ReviewerID, r.RevieweeID, r.PerformerID, r.Rating, r.Title, r.Content,
		r.Response, r.ResponseAt, r.IsFlagged, r.FlagReason, r.FlaggedAt, arbitration, r.Demo, r.CreatedAt,
	)
	if err != nil {
		return mapErr(err, "insert review")
	}
	r.ID = id
	return nil
}

// SaveMarketEvent writes the content item, its meta and the relational row in
// one transaction.
func (s *Store) SaveMarketEvent(ctx context.Context, ev *marketplace.MarketEvent) error {
	id := uuid.NewString()
	var contentID string
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		contentID, err = createItem(ctx, tx, store.ContentItem{
			Type:      store.ContentMarketEvent,
			Title:     ev.Name,
			Body:      ev.Description,
			Status:    "publish",
			AuthorID:  ev.CustomerID,
			Demo:      ev.Demo,
			CreatedAt: ev.CreatedAt,
		})
		if err != nil {
			return err
		}
		for k, v := range store.MarketEventMeta(ev) {
			if err := setMeta(ctx, tx, contentID, k, v); err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `
            INSERT INTO market_events (
                id, content_id, customer_id, category_term_id, name, description, duration_hours,
                budget_min, budget_max, event_date, bid_deadline, status, total_bids, is_demo, created_at
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        `,
			id, contentID, ev.CustomerID, ev.CategoryTermID, ev.Name, ev.Description, ev.DurationHours,
			ev.BudgetMin, ev.BudgetMax, ev.EventDate, ev.BidDeadline, string(ev.Status), ev.TotalBids, ev.Demo, ev.CreatedAt,
		)
		return mapErr(err, "insert market event")
	})
	if err != nil {
		return err
	}
	ev.ID = id
	ev.ContentID = contentID
	return nil
}

func (s *Store) SetMarketEventBidCount(ctx context.Context, eventID string, n int) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var contentID string
		err := tx.QueryRow(ctx, `
            UPDATE market_events SET total_bids = $2 WHERE id = $1 RETURNING content_id
        `, eventID, n).Scan(&contentID)
		if err != nil {
			return mapErr(err, "bid count")
		}
		return setMeta(ctx, tx, contentID, store.MetaTotalBids, strconv.Itoa(n))
	})
}

func (s *Store) InsertBid(ctx context.Context, b *marketplace.Bid) error {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
        INSERT INTO market_bids (id, event_id, performer_id, performer_user_id, amount, message, status, is_demo, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, id, b.EventID, b.PerformerID, b.PerformerUserID, b.Amount, b.Message, string(b.Status), b.Demo, b.CreatedAt)
	if err != nil {
		return mapErr(err, "insert bid")
	}
	b.ID = id
	return nil
}

// ===== Purger =====

// PurgeDemo deletes demo rows child tables first, all inside one transaction.
func (s *Store) PurgeDemo(ctx context.Context) (store.PurgeReport, error) {
	report := store.PurgeReport{}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, table := range db.DemoTables() {
			sql := fmt.Sprintf("DELETE FROM %s WHERE is_demo", pgx.Identifier{table}.Sanitize())
			tag, err := tx.Exec(ctx, sql)
			if err != nil {
				return fmt.Errorf("purge %s: %w", table, err)
			}
			report[table] = tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
