package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed backend call. Every kind carries its own
// user-facing message; handlers never surface raw transport errors.
type Kind string

const (
	KindTimeout               Kind = "timeout"
	KindNetworkUnavailable    Kind = "network_unavailable"
	KindCORSOrConfig          Kind = "cors_or_config"
	KindInvalidCredentials    Kind = "invalid_credentials"
	KindServerError           Kind = "server_error"
	KindConflict              Kind = "conflict"
	KindValidationError       Kind = "validation_error"
	KindInvalidServerResponse Kind = "invalid_server_response"
	KindUnknown               Kind = "unknown"
)

type Error struct {
	Kind       Kind
	Message    string // user-facing, Spanish
	StatusCode int    // HTTP status when the server answered, 0 otherwise
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

const (
	msgTimeout            = "La conexión con el servidor ha excedido el tiempo de espera. Intente nuevamente."
	msgNetwork            = "No se pudo conectar con el servidor. Verifique su conexión e intente nuevamente."
	msgCORS               = "Error de acceso al servidor. Problema de configuración CORS. Contacte al administrador."
	msgInvalidCredentials = "Credenciales inválidas. Verifique su cédula y contraseña."
	msgServer             = "Error en el servidor. Por favor, intente más tarde."
	msgInvalidResponse    = "Respuesta del servidor inválida."
	msgUnknown            = "Error inesperado. Intente nuevamente."
	msgSessionExpired     = "Sesión expirada."

	msgCedulaTaken   = "La cédula ya está registrada en el sistema."
	msgEmailTaken    = "El correo electrónico ya está registrado en el sistema."
	msgUsernameTaken = "El nombre de usuario ya está registrado en el sistema."
	msgDuplicateUser = "Ya existe un usuario con estos datos en el sistema."
	msgBadDepartment = "El departamento seleccionado no es válido."
	msgPasswordsDiff = "Las contraseñas no coinciden."
	msgBadCedula     = "La cédula no es válida. Debe tener entre 8 y 10 dígitos."
	msgBadEmail      = "El correo electrónico no es válido."
)

// UserMessage extracts the user-facing message from any error returned by
// this package, falling back to the generic unknown-error message.
func UserMessage(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return msgUnknown
}

// ErrorKind returns the taxonomy kind, or KindUnknown for foreign errors.
func ErrorKind(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// ErrSessionExpired is returned when the server rejects the bearer token on
// an authenticated call. Callers must clear the local session and return to
// the login view.
var ErrSessionExpired = &Error{Kind: KindInvalidCredentials, Message: msgSessionExpired, StatusCode: 401}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// classifyTransport maps a failed round trip (no HTTP response at all) onto
// the taxonomy.
func classifyTransport(err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newError(KindTimeout, msgTimeout, err)
	case strings.Contains(err.Error(), "CORS") || strings.Contains(err.Error(), "cross-origin"):
		return newError(KindCORSOrConfig, msgCORS, err)
	default:
		return newError(KindNetworkUnavailable, msgNetwork, err)
	}
}

// classifyRegisterFailure maps a non-2xx register response onto the taxonomy
// by the server's own message; duplicates are only distinguishable by
// substring.
func classifyRegisterFailure(status int, serverMsg string) *Error {
	lower := strings.ToLower(serverMsg)

	if strings.Contains(lower, "ya existe") || strings.Contains(lower, "already exists") {
		switch {
		case strings.Contains(lower, "cedula"):
			return &Error{Kind: KindConflict, Message: msgCedulaTaken, StatusCode: status}
		case strings.Contains(lower, "email"):
			return &Error{Kind: KindConflict, Message: msgEmailTaken, StatusCode: status}
		case strings.Contains(lower, "username"):
			return &Error{Kind: KindConflict, Message: msgUsernameTaken, StatusCode: status}
		}
		return &Error{Kind: KindConflict, Message: msgDuplicateUser, StatusCode: status}
	}

	switch {
	case strings.Contains(lower, "departamento no válido") || strings.Contains(lower, "department"):
		return &Error{Kind: KindValidationError, Message: msgBadDepartment, StatusCode: status}
	case strings.Contains(lower, "confirm_password") || strings.Contains(lower, "contraseña"):
		return &Error{Kind: KindValidationError, Message: msgPasswordsDiff, StatusCode: status}
	case strings.Contains(lower, "cedula"):
		return &Error{Kind: KindValidationError, Message: msgBadCedula, StatusCode: status}
	case strings.Contains(lower, "email"):
		return &Error{Kind: KindValidationError, Message: msgBadEmail, StatusCode: status}
	}

	msg := serverMsg
	if msg == "" {
		msg = msgServer
	}
	return &Error{Kind: KindServerError, Message: msg, StatusCode: status}
}
