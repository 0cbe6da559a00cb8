package auth

// Claims representa la identidad autenticada de un request.
type Claims struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	Avatar    string
	SessionID string
}

// HasRole reporta si el rol de los claims está entre los permitidos.
func (c Claims) HasRole(roles ...string) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
