package domain

import "time"

// Address status flags; removal is a soft delete.
const (
	AddressActive  = 1
	AddressRemoved = 0
)

type Address struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"-"`
	AccountID string    `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Province  string    `json:"province"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	Detail    string    `json:"detail"`
	IsDefault bool      `json:"isDefault"`
	Status    int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddressSnapshot is the denormalized copy embedded in an order.
type AddressSnapshot struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Province string `json:"province"`
	City     string `json:"city"`
	District string `json:"district"`
	Detail   string `json:"detail"`
}

// Snapshot copies the shipping fields of a.
func (a Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Name:     a.Name,
		Phone:    a.Phone,
		Province: a.Province,
		City:     a.City,
		District: a.District,
		Detail:   a.Detail,
	}
}
