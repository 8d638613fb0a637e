package entity

// ProviderReturn es una devolución de mercancía a un proveedor (salida irreversible).
type ProviderReturn struct {
	Document
	ProviderID string
}

// Clone devuelve una copia profunda.
func (r *ProviderReturn) Clone() *ProviderReturn {
	c := *r
	c.Lines = r.CloneLines()
	return &c
}
