package dto

// Códigos de respuesta del envelope. "000" es el único centinela de éxito:
// toda bifurcación éxito/fracaso del cliente se decide contra él.
const (
	CodeSuccess      = "000"
	CodeValidation   = "400"
	CodeUnauthorized = "401"
	CodeForbidden    = "403"
	CodeNotFound     = "404"
	CodeConflict     = "409"
	CodeInternal     = "500"
)

// Envelope envoltura JSON de toda respuesta del API y de todo frame del canal en vivo.
type Envelope struct {
	RespCode string      `json:"respCode"`
	RespDesc string      `json:"respDesc"`
	Data     interface{} `json:"data,omitempty"`
}

// OK construye un envelope de éxito.
func OK(data interface{}) Envelope {
	return Envelope{RespCode: CodeSuccess, RespDesc: "éxito", Data: data}
}

// Fail construye un envelope de rechazo con el mensaje del servidor.
func Fail(code, desc string) Envelope {
	return Envelope{RespCode: code, RespDesc: desc}
}

// IsSuccess indica si el envelope señala éxito.
func (e Envelope) IsSuccess() bool {
	return e.RespCode == CodeSuccess
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}
