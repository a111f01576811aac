package notify

import (
	"context"
	"errors"
)

var (
	// ErrNoDevice: el usuario no tiene device registrado en el servicio de push.
	// Condición esperable y no fatal: el caller la loguea y sigue.
	ErrNoDevice = errors.New("no registered device")
)

// Gateway entrega un mensaje titulado al device registrado de un usuario.
// contextID es opcional (id de reporte u otro recurso relacionado, para
// deep-linking en el cliente). Devuelve el delivery id del proveedor.
type Gateway interface {
	Send(ctx context.Context, userID, title, body, contextID string) (string, error)
}

// Discard es un Gateway que no entrega nada. Default en dev/tests
// cuando no hay servicio de push configurado.
type Discard struct{}

func (Discard) Send(ctx context.Context, userID, title, body, contextID string) (string, error) {
	return "", nil
}
