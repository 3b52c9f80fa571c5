// Package booking owns the unauthenticated booking draft: a client-only
// intent that must survive the redirect to the payment provider and back.
// The draft travels in a single-slot cookie mailbox and is redeemed by
// identifier equality, never by trusting whatever the cookie holds.
package booking

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stayhaven/edge/internal/apierr"
)

// State of the draft slot. A freshly written draft is Drafted; once a later
// request carries it back in the cookie it is InTransit. Redeemed, Abandoned
// and Mismatched are terminal, and the flow never partially recovers from an
// identifier mismatch.
type State string

const (
	StateAbsent     State = "absent"
	StateDrafted    State = "drafted"
	StateInTransit  State = "in_transit"
	StateRedeemed   State = "redeemed"
	StateAbandoned  State = "abandoned"
	StateMismatched State = "mismatched"
)

// Draft is the not-yet-committed booking. Owned by the browser session
// only; the backend never writes it.
type Draft struct {
	ID            string    `json:"id" validate:"required"`
	HotelID       string    `json:"hotelId" validate:"required"`
	RoomID        string    `json:"roomId" validate:"required"`
	CheckIn       time.Time `json:"checkIn" validate:"required"`
	CheckOut      time.Time `json:"checkOut" validate:"required,gtfield=CheckIn"`
	GuestCount    int       `json:"guestCount" validate:"required,min=1"`
	PriceSnapshot int64     `json:"priceSnapshot" validate:"required,min=1"`
	ContactName   string    `json:"contactName" validate:"required"`
	ContactEmail  string    `json:"contactEmail" validate:"required,email"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// EnsureID fills in a client-generated identifier when the caller did not
// provide one.
func (d *Draft) EnsureID() {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
}

// Validate checks the draft schema, returning every offending field at once
// as an apierr.ValidationError.
func (d *Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &apierr.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, apierr.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	default:
		return "is invalid"
	}
}
