package booking

type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal states accept no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Occupying states participate in overlap checks and availability.
func (s Status) Occupies() bool {
	return s == StatusReserved || s == StatusActive
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

func (p PaymentStatus) String() string {
	return string(p)
}
