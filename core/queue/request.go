package queue

import (
	"time"

	"github.com/google/uuid"
)

// Request is a single borrow request waiting to be served.
type Request struct {
	ID         uuid.UUID `json:"id"`
	BorrowerID int       `json:"borrower_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewRequest creates a request for the given borrower with a fresh ID.
func NewRequest(borrowerID int) Request {
	return Request{
		ID:         uuid.New(),
		BorrowerID: borrowerID,
		EnqueuedAt: time.Now(),
	}
}
