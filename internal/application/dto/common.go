package dto

// ErrorResponse cuerpo de error HTTP. El cliente muestra Message tal cual.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse respuesta mínima de operaciones sin cuerpo propio.
type StatusResponse struct {
	Status string `json:"status"`
}
