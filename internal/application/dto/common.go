package dto

// PageRequest paginación por página para listados. El tamaño de página es
// fijo (10) en toda la API.
type PageRequest struct {
	Page int `query:"page" validate:"min=1"`
}

// DefaultPage aplica valores por defecto si Page es cero.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
