package domain

import "time"

// Colecciones de Mongo.
const (
	CollCompanies      = "companies"
	CollUserSync       = "user_sync"
	CollContainers     = "containers"
	CollIncidents      = "incidents"
	CollSensorReadings = "sensor_data"
)

// GeoPoint es un punto GeoJSON (lon, lat) tal como lo indexa Mongo.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint construye un punto GeoJSON válido.
func NewGeoPoint(lon, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// ContactInfo agrupa los datos de contacto embebidos en el documento empresa.
type ContactInfo struct {
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
}

// CompanyDocument es el espejo documental de una empresa.
// La clave de correlación con Postgres es CompanyID (COMP-NNN).
type CompanyDocument struct {
	CompanyID string      `bson:"company_id" json:"companyId"`
	Name      string      `bson:"name" json:"name"`
	Location  *GeoPoint   `bson:"location,omitempty" json:"location,omitempty"`
	Contact   ContactInfo `bson:"contact" json:"contact"`
	Active    bool        `bson:"active" json:"active"`
	CreatedAt time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updatedAt"`
}

// UserSyncDocument es el espejo documental de un usuario, clavado por
// el id relacional (sql_user_id).
type UserSyncDocument struct {
	SQLUserID int64     `bson:"sql_user_id" json:"sqlUserId"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	CompanyID string    `bson:"company_id" json:"companyId"`
	Active    bool      `bson:"active" json:"active"`
	LastSync  time.Time `bson:"last_sync" json:"lastSync"`
}

// Container vive solo en Mongo. ContainerID es CONT-NNN.
type Container struct {
	ContainerID string    `bson:"container_id" json:"containerId"`
	CompanyID   string    `bson:"company_id" json:"companyId"`
	Type        string    `bson:"type" json:"type"`
	CapacityL   float64   `bson:"capacity_liters" json:"capacityLiters"`
	FillLevel   float64   `bson:"fill_level" json:"fillLevel"`
	Status      string    `bson:"status" json:"status"`
	Location    *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	DeviceID    string    `bson:"device_id,omitempty" json:"deviceId,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// Estados de contenedor.
const (
	ContainerStatusActive      = "active"
	ContainerStatusFull        = "full"
	ContainerStatusMaintenance = "maintenance"
	ContainerStatusInactive    = "inactive"
)

// Incident vive solo en Mongo. IncidentID es INC-NNN; ReportedBy
// referencia el id relacional del usuario que reportó.
type Incident struct {
	IncidentID  string     `bson:"incident_id" json:"incidentId"`
	ContainerID string     `bson:"container_id" json:"containerId"`
	ReportedBy  int64      `bson:"reported_by" json:"reportedBy"`
	Type        string     `bson:"type" json:"type"`
	Description string     `bson:"description" json:"description"`
	Priority    string     `bson:"priority" json:"priority"`
	Status      string     `bson:"status" json:"status"`
	Resolution  string     `bson:"resolution,omitempty" json:"resolution,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	ResolvedAt  *time.Time `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
}

// Estados de incidente.
const (
	IncidentStatusOpen       = "open"
	IncidentStatusInProgress = "in_progress"
	IncidentStatusResolved   = "resolved"
)

// SensorReading es una lectura puntual de un dispositivo.
type SensorReading struct {
	DeviceID    string    `bson:"device_id" json:"deviceId"`
	ContainerID string    `bson:"container_id" json:"containerId"`
	Readings    Readings  `bson:"readings" json:"readings"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// Readings agrupa las magnitudes medidas por el sensor.
type Readings struct {
	FillLevel   float64 `bson:"fill_level" json:"fillLevel"`
	Temperature float64 `bson:"temperature" json:"temperature"`
	BatteryPct  float64 `bson:"battery_pct" json:"batteryPct"`
}

// SensorAverages son los promedios agregados de un dispositivo
// en una ventana de tiempo.
type SensorAverages struct {
	DeviceID       string  `json:"deviceId"`
	Samples        int64   `json:"samples"`
	AvgFillLevel   float64 `json:"avgFillLevel"`
	AvgTemperature float64 `json:"avgTemperature"`
	AvgBatteryPct  float64 `json:"avgBatteryPct"`
}
