package domain

import (
	"errors"
	"time"
)

// TimestampLayout is the rendering format for created_at/updated_at in API
// responses, independent of the storage representation.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	ErrDuplicateEmail = errors.New("email already taken")
	ErrDuplicatePhone = errors.New("phone already taken")
)

type Guest struct {
	ID        int64
	FirstName string
	LastName  string
	Email     *string
	Phone     string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuestInput carries the writable fields of a guest. Pointers distinguish
// "field not sent" from an explicit value, so the same type serves both
// create and partial update.
type GuestInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
}

// ApplyTo copies the provided fields onto g. An empty email is treated as
// "no email" and stored as NULL.
func (in GuestInput) ApplyTo(g *Guest) {
	if in.FirstName != nil {
		g.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		g.LastName = *in.LastName
	}
	if in.Email != nil {
		if *in.Email == "" {
			g.Email = nil
		} else {
			email := *in.Email
			g.Email = &email
		}
	}
	if in.Phone != nil {
		g.Phone = *in.Phone
	}
	if in.Country != nil {
		g.Country = *in.Country
	}
}

type GuestDTO struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
	Phone     string  `json:"phone"`
	Country   string  `json:"country"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func (g *Guest) DTO() GuestDTO {
	return GuestDTO{
		ID:        g.ID,
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Email:     g.Email,
		Phone:     g.Phone,
		Country:   g.Country,
		CreatedAt: g.CreatedAt.Format(TimestampLayout),
		UpdatedAt: g.UpdatedAt.Format(TimestampLayout),
	}
}

// ListFilter narrows the guest listing. Email and Phone match as substrings,
// Country matches exactly.
type ListFilter struct {
	Email   string
	Phone   string
	Country string
}

// GuestPage is one page of a filtered listing.
type GuestPage struct {
	Guests      []Guest
	TotalCount  int
	PageCount   int
	CurrentPage int
	PerPage     int
}
