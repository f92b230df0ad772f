package domain

import "time"

// Project is a tenant. Every commerce entity is scoped by one.
type Project struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
