package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeAuthRequired Code = "AUTHENTICATION_REQUIRED"
	CodeAuthExpired  Code = "AUTHORIZATION_EXPIRED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnreachable  Code = "UNREACHABLE"
	CodeUnknown      Code = "UNKNOWN"
)

// Metadata describes how the client should react to a code.
type Metadata struct {
	ClearsSession bool
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeAuthRequired: {
		ClearsSession: false,
		Retryable:     false,
		PublicMessage: "inicia sesión para continuar",
	},
	CodeAuthExpired: {
		ClearsSession: true,
		Retryable:     false,
		PublicMessage: "tu sesión expiró",
	},
	CodeNotFound: {
		ClearsSession: false,
		Retryable:     false,
		PublicMessage: "recurso no encontrado",
	},
	CodeConflict: {
		ClearsSession: false,
		Retryable:     false,
		PublicMessage: "la operación entra en conflicto con el estado actual",
	},
	CodeValidation: {
		ClearsSession: false,
		Retryable:     false,
		PublicMessage: "datos inválidos",
	},
	CodeUnreachable: {
		ClearsSession: false,
		Retryable:     true,
		PublicMessage: "no se pudo contactar al servidor",
	},
	CodeUnknown: {
		ClearsSession: false,
		Retryable:     false,
		PublicMessage: "error inesperado",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeUnknown]
}

type Error struct {
	code    Code
	message string
	status  int
	detail  string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// FromStatus classifies an HTTP response status into a coded error.
// Status 0 means the request never reached the server.
func FromStatus(status int, detail string) *Error {
	code := CodeUnknown
	switch {
	case status == 0:
		code = CodeUnreachable
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = CodeAuthExpired
	case status == http.StatusNotFound:
		code = CodeNotFound
	case status == http.StatusConflict:
		code = CodeConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code = CodeValidation
	}
	message := detail
	if message == "" {
		message = MetadataFor(code).PublicMessage
	}
	return &Error{code: code, message: message, status: status, detail: detail}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeUnknown
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Status returns the HTTP status the error was classified from, or 0.
func (e *Error) Status() int {
	if e == nil {
		return 0
	}
	return e.status
}

// Detail returns the server's raw detail message when present.
func (e *Error) Detail() string {
	if e == nil {
		return ""
	}
	return e.detail
}

func (e *Error) WithStatus(status int) *Error {
	if e == nil {
		return nil
	}
	e.status = status
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
