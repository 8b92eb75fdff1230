package domain

import "time"

// Client representa a un socio del gimnasio
type Client struct {
	ID              string     `json:"id"`
	CI              string     `json:"ci"` // cédula de identidad, única
	Name            string     `json:"name"`
	Photo           string     `json:"photo,omitempty"`
	Plan            string     `json:"plan,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Disabled        bool       `json:"disabled"`
	ConsecutiveDays int        `json:"consecutive_days"`
	TotalAccesses   int        `json:"total_accesses"`
	LastAccess      *time.Time `json:"last_access,omitempty"`
	AvailablePoints int        `json:"available_points"`
	AvailableDays   int        `json:"available_days"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsActive indica si el cliente puede ingresar al gimnasio
func (c *Client) IsActive() bool {
	return !c.Disabled
}
