package marketplace

import (
	"time"

	"github.com/shopspring/decimal"
)

// Performer is the relational record backing a performer profile.
type Performer struct {
	ID                  string           `json:"id"`
	UserID              string           `json:"user_id"`
	ContentID           string           `json:"content_id"`
	StageName           string           `json:"stage_name"`
	Tier                Tier             `json:"tier"`
	HourlyRate          decimal.Decimal  `json:"hourly_rate"`
	DepositPercentage   int              `json:"deposit_percentage"`
	AchievementLevel    AchievementLevel `json:"achievement_level"`
	AchievementScore    int              `json:"achievement_score"`
	ProfileCompleteness int              `json:"profile_completeness"`
	CompletedBookings   int              `json:"completed_bookings"`
	AverageRating       float64          `json:"average_rating"`
	TotalReviews        int              `json:"total_reviews"`
	Verified            bool             `json:"verified"`
	Featured            bool             `json:"featured"`
	Status              string           `json:"status"`
	City                string           `json:"city"`
	State               string           `json:"state"`
	Demo                bool             `json:"is_demo"`
	CreatedAt           time.Time        `json:"created_at"`
}

// AvailabilitySlot marks one calendar day for a performer.
type AvailabilitySlot struct {
	PerformerID string             `json:"performer_id"`
	Date        time.Time          `json:"date"`
	Status      AvailabilityStatus `json:"status"`
	Demo        bool               `json:"is_demo"`
}

// Customer is a user that books performers or posts market events.
type Customer struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Company   string    `json:"company,omitempty"`
	Demo      bool      `json:"is_demo"`
	CreatedAt time.Time `json:"created_at"`
}

// Microsite is a performer's public mini-site.
type Microsite struct {
	ID          string            `json:"id"`
	PerformerID string            `json:"performer_id"`
	UserID      string            `json:"user_id"`
	Slug        string            `json:"slug"`
	Template    string            `json:"template"`
	AccentColor string            `json:"accent_color"`
	Design      map[string]string `json:"design"`
	ViewCount   int               `json:"view_count"`
	Status      string            `json:"status"`
	Demo        bool              `json:"is_demo"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Booking is an engagement between a customer and a performer.
type Booking struct {
	ID               string          `json:"id"`
	PerformerID      string          `json:"performer_id"`
	PerformerUserID  string          `json:"performer_user_id"`
	CustomerID       string          `json:"customer_id"`
	EventName        string          `json:"event_name"`
	EventType        string          `json:"event_type"`
	EventLocation    string          `json:"event_location"`
	EventDate        time.Time       `json:"event_date"`
	Hours            int             `json:"hours"`
	Status           BookingStatus   `json:"status"`
	EscrowStatus     EscrowStatus    `json:"escrow_status"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DepositAmount    decimal.Decimal `json:"deposit_amount"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	PayoutAmount     decimal.Decimal `json:"payout_amount"`
	DepositPaid      bool            `json:"deposit_paid"`
	FullyPaid        bool            `json:"fully_paid"`
	PayoutDate       *time.Time      `json:"payout_date,omitempty"`
	Demo             bool            `json:"is_demo"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Transaction is a money movement recorded against a booking. A nil payer or
// payee is the platform escrow account.
type Transaction struct {
	ID        string            `json:"id"`
	BookingID string            `json:"booking_id"`
	Type      TransactionType   `json:"type"`
	Amount    decimal.Decimal   `json:"amount"`
	PayerID   *string           `json:"payer_id"`
	PayeeID   *string           `json:"payee_id"`
	Status    TransactionStatus `json:"status"`
	Demo      bool              `json:"is_demo"`
	CreatedAt time.Time         `json:"created_at"`
}

// Review is a customer's rating of a performer for a booking.
type Review struct {
	ID                string             `json:"id"`
	BookingID         string             `json:"booking_id"`
	ReviewerID        string             `json:"reviewer_id"`
	RevieweeID        string             `json:"reviewee_id"`
	PerformerID       string             `json:"performer_id"`
	Rating            int                `json:"rating"`
	Title             string             `json:"title"`
	Content           string             `json:"content"`
	Response          *string            `json:"response,omitempty"`
	ResponseAt        *time.Time         `json:"response_at,omitempty"`
	IsFlagged         bool               `json:"is_flagged"`
	FlagReason        *string            `json:"flag_reason,omitempty"`
	FlaggedAt         *time.Time         `json:"flagged_at,omitempty"`
	ArbitrationStatus *ArbitrationStatus `json:"arbitration_status,omitempty"`
	Demo              bool               `json:"is_demo"`
	CreatedAt         time.Time          `json:"created_at"`
}

// MarketEvent is a customer-posted event open to performer bids. It is stored
// both as a content item and as a relational row.
type MarketEvent struct {
	ID             string            `json:"id"`
	ContentID      string            `json:"content_id"`
	CustomerID     string            `json:"customer_id"`
	CategoryTermID *string           `json:"category_term_id,omitempty"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	DurationHours  int               `json:"duration_hours"`
	BudgetMin      decimal.Decimal   `json:"budget_min"`
	BudgetMax      decimal.Decimal   `json:"budget_max"`
	EventDate      time.Time         `json:"event_date"`
	BidDeadline    time.Time         `json:"bid_deadline"`
	Status         MarketEventStatus `json:"status"`
	TotalBids      int               `json:"total_bids"`
	Demo           bool              `json:"is_demo"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Bid is a performer's offer on a market event.
type Bid struct {
	ID              string          `json:"id"`
	EventID         string          `json:"event_id"`
	PerformerID     string          `json:"performer_id"`
	PerformerUserID string          `json:"performer_user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Message         string          `json:"message"`
	Status          BidStatus       `json:"status"`
	Demo            bool            `json:"is_demo"`
	CreatedAt       time.Time       `json:"created_at"`
}
