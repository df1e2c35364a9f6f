// Package repository define los contratos de persistencia del dominio.
//
// Las implementaciones viven bajo internal/store: los repos híbridos
// (empresa, usuario) coordinan Postgres + Mongo vía el coordinador de
// doble escritura, y los repos documentales (contenedor, incidente,
// lecturas) escriben solo en Mongo. Los errores se normalizan a los
// sentinel de errors.go.
package repository
