package domain

// CreateClientRequest representa la petición para dar de alta un socio
type CreateClientRequest struct {
	CI    string `json:"ci"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Plan  string `json:"plan"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ToClient construye el socio a partir de la petición
func (r CreateClientRequest) ToClient() *Client {
	return &Client{
		CI:    r.CI,
		Name:  r.Name,
		Photo: r.Photo,
		Plan:  r.Plan,
		Phone: r.Phone,
		Email: r.Email,
	}
}
