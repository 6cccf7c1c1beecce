package domain

// Roles recognised by the pharmacy API.
const (
	RoleAdmin       = "admin"
	RoleAlmacenista = "almacenista"
	RoleCliente     = "cliente"
)

// User is the resolved profile of the authenticated actor, as returned by
// the profile endpoint. The client never derives it locally.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Disabled bool   `json:"disabled"`
}

// Token is the response of the token-issuing endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
