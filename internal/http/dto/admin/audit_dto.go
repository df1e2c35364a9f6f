// Package admin define los DTOs de las rutas /v1/admin.
package admin

// RepairResponse para POST /v1/admin/repair/{kind}/{id}
type RepairResponse struct {
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	Collection string `json:"collection"`
	Repaired   bool   `json:"repaired"`
}
