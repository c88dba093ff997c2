package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	Invalid        Kind = "invalid"
	NotFound       Kind = "not_found"
	Unauthorized   Kind = "unauthorized"
	Forbidden      Kind = "forbidden"
	Conflict       Kind = "conflict"
	Provider       Kind = "provider"
	Signature      Kind = "signature"
	MalformedEvent Kind = "malformed_event"
	Configuration  Kind = "configuration"
	Internal       Kind = "internal"
)

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

// Constructors (PublicMsg must stay short and safe)
func InvalidErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg, Fields: fields}
}
func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg}
}
func ConflictErr(publicMsg string) *AppError {
	return &AppError{Kind: Conflict, PublicMsg: publicMsg}
}
func ProviderErr(publicMsg string, err error) *AppError {
	return &AppError{Kind: Provider, PublicMsg: publicMsg, Err: err}
}
func SignatureErr(err error) *AppError {
	return &AppError{Kind: Signature, PublicMsg: "invalid signature", Err: err}
}
func MalformedEventErr(err error) *AppError {
	return &AppError{Kind: MalformedEvent, PublicMsg: "malformed event", Err: err}
}
func ConfigurationErr(publicMsg string, err error) *AppError {
	return &AppError{Kind: Configuration, PublicMsg: publicMsg, Err: err}
}

// Wrap: internal error without a public message (default 500)
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Kind: Internal, PublicMsg: "Unexpected error.", Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == k
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid, Provider, Signature, MalformedEvent:
			return http.StatusBadRequest
		case Unauthorized:
			return http.StatusUnauthorized
		case Forbidden:
			return http.StatusForbidden
		case NotFound:
			return http.StatusNotFound
		case Conflict:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return "Unexpected error."
}
