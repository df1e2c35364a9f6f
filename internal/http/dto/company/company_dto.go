// Package company define los DTOs de las rutas /v1/companies.
package company

import (
	"fmt"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// LocationRequest es un par de coordenadas tal como lo envía el cliente.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ToGeoPoint valida rangos y construye el punto GeoJSON.
func (l *LocationRequest) ToGeoPoint() (*domain.GeoPoint, error) {
	if l == nil {
		return nil, nil
	}
	if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
		return nil, fmt.Errorf("coordenadas fuera de rango: lat=%v lon=%v", l.Lat, l.Lon)
	}
	return domain.NewGeoPoint(l.Lon, l.Lat), nil
}

// CreateCompanyRequest para POST /v1/companies
type CreateCompanyRequest struct {
	Name     string           `json:"name"`
	TaxID    string           `json:"taxId,omitempty"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone,omitempty"`
	Address  string           `json:"address,omitempty"`
	Location *LocationRequest `json:"location,omitempty"`
}

// ToInput convierte el request en el input de dominio validado.
func (r CreateCompanyRequest) ToInput() (domain.NewCompany, error) {
	loc, err := r.Location.ToGeoPoint()
	if err != nil {
		return domain.NewCompany{}, err
	}
	return domain.NewCompany{
		Name:     r.Name,
		TaxID:    r.TaxID,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Location: loc,
	}, nil
}

// UpdateCompanyRequest para PUT /v1/companies/{id}.
// Campos nil significan "no tocar".
type UpdateCompanyRequest struct {
	Name     *string          `json:"name,omitempty"`
	Email    *string          `json:"email,omitempty"`
	Phone    *string          `json:"phone,omitempty"`
	Address  *string          `json:"address,omitempty"`
	Location *LocationRequest `json:"location,omitempty"`
}

// ToInput convierte el request en el input de dominio validado.
func (r UpdateCompanyRequest) ToInput() (domain.CompanyUpdate, error) {
	loc, err := r.Location.ToGeoPoint()
	if err != nil {
		return domain.CompanyUpdate{}, err
	}
	return domain.CompanyUpdate{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Location: loc,
	}, nil
}
