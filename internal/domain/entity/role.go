package entity

// Roles aceptados en el token. La identidad del usuario llega como un id opaco.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleCajero    = "cajero"
)
