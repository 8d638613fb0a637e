package entity

// Transfer es un traslado interno de mercancía entre dos bodegas.
type Transfer struct {
	Document
	TargetWarehouseID string
}

// Clone devuelve una copia profunda.
func (t *Transfer) Clone() *Transfer {
	c := *t
	c.Lines = t.CloneLines()
	return &c
}
