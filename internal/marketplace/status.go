package marketplace

import "fmt"

// Tier is a performer's subscription level.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPro:
		return true
	}
	return false
}

// BookingStatus is the lifecycle stage of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingDisputed   BookingStatus = "disputed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled, BookingDisputed:
		return true
	}
	return false
}

// Reviewable reports whether a booking in this status can carry a review.
func (s BookingStatus) Reviewable() bool {
	switch s {
	case BookingCompleted, BookingDisputed:
		return true
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCancelled:
		return false
	}
	return false
}

// EscrowStatus tracks where a booking's money currently sits.
type EscrowStatus string

const (
	EscrowPending     EscrowStatus = "pending"
	EscrowDepositHeld EscrowStatus = "deposit_held"
	EscrowFullHeld    EscrowStatus = "full_held"
	EscrowReleased    EscrowStatus = "released"
	EscrowRefunded    EscrowStatus = "refunded"
)

func (e EscrowStatus) Valid() bool {
	switch e {
	case EscrowPending, EscrowDepositHeld, EscrowFullHeld, EscrowReleased, EscrowRefunded:
		return true
	}
	return false
}

// DepositPaid reports whether the customer has paid the deposit.
func (e EscrowStatus) DepositPaid() (bool, error) {
	switch e {
	case EscrowDepositHeld, EscrowFullHeld, EscrowReleased, EscrowRefunded:
		return true, nil
	case EscrowPending:
		return false, nil
	}
	return false, fmt.Errorf("unknown escrow status %q", string(e))
}

// FullyPaid reports whether the customer has paid the full amount.
func (e EscrowStatus) FullyPaid() (bool, error) {
	switch e {
	case EscrowFullHeld, EscrowReleased:
		return true, nil
	case EscrowPending, EscrowDepositHeld, EscrowRefunded:
		return false, nil
	}
	return false, fmt.Errorf("unknown escrow status %q", string(e))
}

type TransactionType string

const (
	TransactionDeposit TransactionType = "deposit"
	TransactionBalance TransactionType = "balance"
	TransactionPayout  TransactionType = "payout"
	TransactionRefund  TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// ArbitrationStatus is the admin review state of a flagged review.
type ArbitrationStatus string

const (
	ArbitrationPending ArbitrationStatus = "pending"
	ArbitrationUpheld  ArbitrationStatus = "upheld"
	ArbitrationRemoved ArbitrationStatus = "removed"
)

func (a ArbitrationStatus) Valid() bool {
	switch a {
	case ArbitrationPending, ArbitrationUpheld, ArbitrationRemoved:
		return true
	}
	return false
}

// MarketEventStatus is the bidding state of a market event.
type MarketEventStatus string

const (
	MarketEventOpen   MarketEventStatus = "open"
	MarketEventClosed MarketEventStatus = "closed"
	MarketEventBooked MarketEventStatus = "booked"
)

func (m MarketEventStatus) Valid() bool {
	switch m {
	case MarketEventOpen, MarketEventClosed, MarketEventBooked:
		return true
	}
	return false
}

// BidStatus is the outcome of a performer's bid.
type BidStatus string

const (
	BidPending   BidStatus = "pending"
	BidAccepted  BidStatus = "accepted"
	BidRejected  BidStatus = "rejected"
	BidExpired   BidStatus = "expired"
	BidWithdrawn BidStatus = "withdrawn"
)

func (b BidStatus) Valid() bool {
	switch b {
	case BidPending, BidAccepted, BidRejected, BidExpired, BidWithdrawn:
		return true
	}
	return false
}

type AvailabilityStatus string

const (
	Available AvailabilityStatus = "available"
	Blocked   AvailabilityStatus = "blocked"
)

// AchievementLevel is the badge derived from a performer's achievement score.
type AchievementLevel string

const (
	LevelBronze   AchievementLevel = "bronze"
	LevelSilver   AchievementLevel = "silver"
	LevelGold     AchievementLevel = "gold"
	LevelPlatinum AchievementLevel = "platinum"
)

// LevelForScore maps an achievement score onto its level.
func LevelForScore(score int) AchievementLevel {
	switch {
	case score < 300:
		return LevelBronze
	case score < 700:
		return LevelSilver
	case score < 1200:
		return LevelGold
	default:
		return LevelPlatinum
	}
}
