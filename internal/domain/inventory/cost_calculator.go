package inventory

import "github.com/shopspring/decimal"

// PricePlaces decimales del precio promedio.
const PricePlaces int32 = 4

// CostCalculator implementa el promedio ponderado por cantidad (servicio de dominio).
// Se usa al fusionar dos líneas del mismo producto en un documento:
// Precio = ((CantActual * PrecioActual) + (CantNueva * PrecioNuevo)) / (CantActual + CantNueva)
// El resultado se redondea a PricePlaces, la escala de unit_price en la base de datos.
func CostCalculator(cantActual, precioActual, cantNueva, precioNuevo decimal.Decimal) decimal.Decimal {
	sum := cantActual.Add(cantNueva)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := cantActual.Mul(precioActual).Add(cantNueva.Mul(precioNuevo))
	return num.Div(sum).Round(PricePlaces)
}
