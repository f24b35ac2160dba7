package entity

import "time"

// Business representa una organización/tenant del sistema. Es la frontera de
// aislamiento: usuarios y productos pertenecen siempre a una Business.
// No tiene ciclo de vida de borrado; su identidad es inmutable una vez creada.
type Business struct {
	ID          int64
	Name        string // único global
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
