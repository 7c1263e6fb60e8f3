package car

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNegativeDailyPrice = errors.New("daily price cannot be negative")

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusInactive    Status = "INACTIVE"
	StatusMaintenance Status = "MAINTENANCE"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance:
		return true
	default:
		return false
	}
}

// Car is read-only to every booking flow except completion, which relocates
// the vehicle to the dropoff branch.
type Car struct {
	id              uuid.UUID
	dailyPriceCents int64
	status          Status
	branchID        uuid.UUID
	version         int32
}

func Reconstruct(id uuid.UUID, dailyPriceCents int64, status Status, branchID uuid.UUID, version int32) (*Car, error) {
	if dailyPriceCents < 0 {
		return nil, ErrNegativeDailyPrice
	}
	return &Car{
		id:              id,
		dailyPriceCents: dailyPriceCents,
		status:          status,
		branchID:        branchID,
		version:         version,
	}, nil
}

func (c *Car) IsActive() bool {
	return c.status == StatusActive
}

// Relocate moves the vehicle to its dropoff branch after a completed rental
// and returns it to the bookable fleet.
func (c *Car) Relocate(branchID uuid.UUID) {
	c.branchID = branchID
	c.status = StatusActive
}

func (c *Car) ID() uuid.UUID          { return c.id }
func (c *Car) DailyPriceCents() int64 { return c.dailyPriceCents }
func (c *Car) Status() Status         { return c.status }
func (c *Car) BranchID() uuid.UUID    { return c.branchID }
func (c *Car) Version() int32         { return c.version }
