// Package user define los DTOs de las rutas /v1/users y /v1/auth.
package user

import "github.com/dropDatabas3/smartbin/internal/domain"

// CreateUserRequest para POST /v1/users
type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"` // Texto plano, el servidor lo hashea
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId"`
}

// ToInput convierte el request en el input de dominio.
func (r CreateUserRequest) ToInput() domain.NewUser {
	return domain.NewUser{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
		CompanyID: r.CompanyID,
	}
}

// UpdateUserRequest para PUT /v1/users/{id}.
// Campos nil significan "no tocar".
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *string `json:"role,omitempty"`
	CompanyID *string `json:"companyId,omitempty"`
}

// ToInput convierte el request en el input de dominio.
func (r UpdateUserRequest) ToInput() domain.UserUpdate {
	return domain.UserUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
		CompanyID: r.CompanyID,
	}
}

// LoginRequest para POST /v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse devuelve la vista fusionada del usuario autenticado.
type LoginResponse struct {
	User domain.User `json:"user"`
}
