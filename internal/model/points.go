package model

import (
	"time"

	"github.com/google/uuid"
)

// PointPackage is an immutable catalog entry. Packages are defined at
// deploy time and never persisted per account.
type PointPackage struct {
	ID            string `json:"id"`
	PointsGranted int64  `json:"points_granted"`
	PriceCents    int64  `json:"price_cents"`
	Label         string `json:"label"`
}

type PurchaseStatus string

const (
	PurchaseStatusPending PurchaseStatus = "pending"
	PurchaseStatusActive  PurchaseStatus = "active"
)

// PurchaseRecord is one row of an institution's append-only purchase
// history. Created pending when a checkout session is initiated and
// transitioned to active exactly once, after the processor confirms payment.
type PurchaseRecord struct {
	Base
	InstitutionID     uuid.UUID      `json:"institution_id" db:"institution_id"`
	PackageID         string         `json:"package_id" db:"package_id"`
	CheckoutSessionID string         `json:"checkout_session_id" db:"checkout_session_id"`
	AmountCents       int64          `json:"amount_cents" db:"amount_cents"`
	PointsGranted     int64          `json:"points_granted" db:"points_granted"`
	Status            PurchaseStatus `json:"status" db:"status"`
	PurchaseDate      time.Time      `json:"purchase_date" db:"purchase_date"`
}
