package model

import (
	"time"

	"github.com/google/uuid"
)

type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusPaid    PayoutStatus = "paid"
)

// PayoutRecord is a pending reward owed to a survey respondent.
type PayoutRecord struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	RespondentID uuid.UUID    `json:"respondent_id" db:"respondent_id"`
	AmountCents  int64        `json:"amount_cents" db:"amount_cents"`
	Status       PayoutStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Jackpot is a progressive prize pool funded by platform activity.
type Jackpot struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	PoolCents int64     `json:"pool_cents" db:"pool_cents"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlatformStats is the read-only snapshot served to the admin dashboard.
// A failed sub-fetch degrades its stat to zero instead of blanking the
// whole snapshot.
type PlatformStats struct {
	ActiveSurveys      int64     `json:"active_surveys"`
	PendingPayoutCents int64     `json:"pending_payout_cents"`
	PendingPayoutCount int64     `json:"pending_payout_count"`
	JackpotPoolCents   int64     `json:"jackpot_pool_cents"`
	SearchesLast30Days int64     `json:"searches_last_30_days"`
	Degraded           bool      `json:"degraded"`
	GeneratedAt        time.Time `json:"generated_at"`
}
