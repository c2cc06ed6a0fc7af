package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de las operaciones de administración.
type MessageResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
