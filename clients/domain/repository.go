package domain

import "context"

// ClientFilter define los criterios de filtrado para listar clientes
type ClientFilter struct {
	Disabled *bool
	Search   string
	Limit    int
	Offset   int
}

// ClientRepository define las operaciones de persistencia para clientes
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByCI(ctx context.Context, ci string) (*Client, error)
	Update(ctx context.Context, client *Client) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	List(ctx context.Context, filter ClientFilter) ([]*Client, error)
	Count(ctx context.Context) (int64, error)
}
