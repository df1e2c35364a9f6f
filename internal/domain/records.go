// Package domain define las entidades del sistema: filas relacionales
// (Postgres, fuente de verdad), documentos espejo (Mongo) y las vistas
// fusionadas que exponen los repositorios híbridos.
package domain

import "time"

// Roles de usuario soportados.
const (
	RoleAdmin     = "admin"
	RoleEmployee  = "employee"
	RoleCollector = "collector"
)

// ValidRole indica si el rol pertenece al catálogo conocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCollector:
		return true
	}
	return false
}

// ───────── Filas relacionales (Postgres) ─────────

// CompanyRecord es la fila autoritativa de una empresa.
// MongoCompanyID guarda la clave cruzada hacia el documento espejo.
type CompanyRecord struct {
	ID             int64
	Name           string
	TaxID          string
	Email          string
	Phone          string
	Address        string
	MongoCompanyID string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserRecord es la fila autoritativa de un usuario.
// MongoCompanyID referencia la empresa a la que pertenece (clave externa COMP-NNN).
type UserRecord struct {
	ID             int64
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Role           string
	MongoCompanyID string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ───────── Vistas fusionadas ─────────

// Company es la vista combinada fila + documento que ven los consumidores.
// Los campos de documento quedan en cero si el espejo falta (lectura laxa).
type Company struct {
	ID         int64      `json:"id"`
	ExternalID string     `json:"externalId"`
	Name       string     `json:"name"`
	TaxID      string     `json:"taxId"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	Location   *GeoPoint  `json:"location,omitempty"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	LastSync   *time.Time `json:"lastSync,omitempty"`
}

// User es la vista combinada de un usuario.
type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      string     `json:"role"`
	CompanyID string     `json:"companyId"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastSync  *time.Time `json:"lastSync,omitempty"`
}

// DetailedIncident es un incidente con los nombres del reportante
// resueltos contra Postgres.
type DetailedIncident struct {
	Incident
	ReporterName  string `json:"reporterName,omitempty"`
	ReporterEmail string `json:"reporterEmail,omitempty"`
}

// ───────── Inputs de escritura ─────────

// NewCompany es el input para crear una empresa.
type NewCompany struct {
	Name     string
	TaxID    string
	Email    string
	Phone    string
	Address  string
	Location *GeoPoint
}

// CompanyUpdate es el input para actualizar una empresa. Punteros nil
// significan "no tocar".
type CompanyUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Location *GeoPoint
}

// NewUser es el input para crear un usuario.
type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	CompanyID string
}

// UserUpdate es el input para actualizar un usuario.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Role      *string
	CompanyID *string
}

// NewContainer es el input para registrar un contenedor.
type NewContainer struct {
	CompanyID string
	Type      string
	CapacityL float64
	Location  *GeoPoint
	DeviceID  string
}

// ContainerUpdate actualiza estado operativo de un contenedor.
type ContainerUpdate struct {
	FillLevel *float64
	Status    *string
	Location  *GeoPoint
	DeviceID  *string
}

// NewIncident es el input para reportar un incidente.
type NewIncident struct {
	ContainerID string
	ReportedBy  int64
	Type        string
	Description string
	Priority    string
}
