package domain

import "errors"

// ErrNotFound: el sonido pedido no está en el catálogo.
var ErrNotFound = errors.New("not found")

// MaxButtonsPerMessage es el límite de botones que Discord acepta por mensaje (5 filas x 5).
const MaxButtonsPerMessage = 25

// MaxCustomIDLength: Discord rechaza el mensaje entero si un custom_id pasa de 100.
const MaxCustomIDLength = 100

// ValidCustomID indica si el custom_id entra en un botón.
func ValidCustomID(id string) bool { return id != "" && len(id) <= MaxCustomIDLength }

// Sound es una entrada del catálogo: un clip subido por alguien del server.
type Sound struct {
	ID        int64
	CustomID  string // va embebido en el botón; hoy es el filename original
	Filename  string
	Size      int64
	AddedBy   string
	MessageID *string // mensaje contenedor; nil hasta que se asigna
}

// Assigned indica si el sonido ya tiene botón en algún mensaje.
func (s Sound) Assigned() bool { return s.MessageID != nil && *s.MessageID != "" }

// Attachment es lo mínimo que necesitamos de un adjunto para agregarlo al soundboard.
type Attachment struct {
	Filename string
	Size     int64
	URL      string
}
