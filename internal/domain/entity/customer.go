package entity

// Customer representa un cliente. Phone es el identificador de 9 dígitos
// (^9\d{8}$), único a nivel global; Name es opcional.
type Customer struct {
	ID    int64
	Name  string
	Phone string
}

// CustomerIdentifier es un código de departamento de 3-4 dígitos que no
// empieza en 0 (^[1-9]\d{2,3}$), asociado muchos-a-muchos con clientes.
// Solo se conservan las asociaciones vigentes, sin historial.
type CustomerIdentifier struct {
	ID         int64
	CustomerID int64
	Code       string
}
