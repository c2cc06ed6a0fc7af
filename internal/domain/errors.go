package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Autenticación / autorización
	ErrUnauthenticated    = errors.New("no se pudieron validar las credenciales")
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrAccountDisabled    = errors.New("usuario inactivo")
	ErrForbidden          = errors.New("permisos insuficientes")

	// Ciclo de vida del alquiler
	ErrScooterNotFound     = errors.New("patinete no encontrado")
	ErrScooterUnavailable  = errors.New("patinete no disponible")
	ErrTariffNotFound      = errors.New("tarifa no encontrada")
	ErrRentalNotFound      = errors.New("alquiler no encontrado o no pertenece al usuario")
	ErrRentalAlreadyClosed = errors.New("el alquiler ya está cerrado")
	ErrRentalStillOpen     = errors.New("el alquiler sigue abierto")

	// Pagos
	ErrAlreadyPaid         = errors.New("el alquiler ya tiene un pago vigente")
	ErrPaymentNotFound     = errors.New("pago no encontrado")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
)
