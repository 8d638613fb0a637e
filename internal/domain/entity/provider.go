package entity

import "time"

// Provider es el destino externo de las devoluciones. No tiene líneas de inventario.
type Provider struct {
	ID        string
	TaxID     string // NIT, único
	Name      string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
