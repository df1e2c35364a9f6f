// Package container define los DTOs de las rutas /v1/containers.
package container

import (
	"github.com/dropDatabas3/smartbin/internal/domain"
	companydto "github.com/dropDatabas3/smartbin/internal/http/dto/company"
)

// CreateContainerRequest para POST /v1/containers
type CreateContainerRequest struct {
	CompanyID      string                      `json:"companyId"`
	Type           string                      `json:"type"`
	CapacityLiters float64                     `json:"capacityLiters"`
	Location       *companydto.LocationRequest `json:"location,omitempty"`
	DeviceID       string                      `json:"deviceId,omitempty"`
}

// ToInput convierte el request en el input de dominio validado.
func (r CreateContainerRequest) ToInput() (domain.NewContainer, error) {
	loc, err := r.Location.ToGeoPoint()
	if err != nil {
		return domain.NewContainer{}, err
	}
	return domain.NewContainer{
		CompanyID: r.CompanyID,
		Type:      r.Type,
		CapacityL: r.CapacityLiters,
		Location:  loc,
		DeviceID:  r.DeviceID,
	}, nil
}

// UpdateContainerRequest para PUT /v1/containers/{id}.
// Campos nil significan "no tocar".
type UpdateContainerRequest struct {
	FillLevel *float64                    `json:"fillLevel,omitempty"`
	Status    *string                     `json:"status,omitempty"`
	Location  *companydto.LocationRequest `json:"location,omitempty"`
	DeviceID  *string                     `json:"deviceId,omitempty"`
}

// ToInput convierte el request en el input de dominio validado.
func (r UpdateContainerRequest) ToInput() (domain.ContainerUpdate, error) {
	loc, err := r.Location.ToGeoPoint()
	if err != nil {
		return domain.ContainerUpdate{}, err
	}
	return domain.ContainerUpdate{
		FillLevel: r.FillLevel,
		Status:    r.Status,
		Location:  loc,
		DeviceID:  r.DeviceID,
	}, nil
}
