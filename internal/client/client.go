package client

// Type distinguishes a physical person from a registered company.
type Type string

const (
	TypeFisica   Type = "FISICA"
	TypeJuridica Type = "JURIDICA"
)

// Client is a customer of the business. CuitDni uniqueness is enforced by
// the backend.
type Client struct {
	ID      string  `json:"id"`
	Type    Type    `json:"type"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	CuitDni string  `json:"cuitDni"`
}

// CreateParams is the payload for creating or replacing a client.
type CreateParams struct {
	Type    Type    `json:"type"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	CuitDni string  `json:"cuitDni"`
}

// Placeholder is the "no client selected" value embedded in an empty cart.
func Placeholder() Client {
	return Client{}
}
