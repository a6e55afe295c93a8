package form

import "net/http"

const MalformedMessage = "Form not submitted correctly."

// Kind tags the outcome of a form action.
type Kind int

const (
	KindRedirect Kind = iota
	KindInvalid
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindInvalid:
		return "invalid"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// ActionData is the body returned with a 400 so the page can re-render the
// submitted values next to their messages.
type ActionData[F any] struct {
	Fields      *F          `json:"fields,omitempty"`
	FieldErrors FieldErrors `json:"fieldErrors,omitempty"`
	FormError   string      `json:"formError,omitempty"`
}

// Result is what an action hands back to the transport. Exactly one of
// Location, Data or Message is meaningful, depending on Kind.
type Result[F any] struct {
	Kind      Kind
	Status    int
	Location  string
	SetCookie string
	Data      *ActionData[F]
	Message   string
}

func Redirect[F any](location, setCookie string) Result[F] {
	return Result[F]{
		Kind:      KindRedirect,
		Status:    http.StatusFound,
		Location:  location,
		SetCookie: setCookie,
	}
}

// Malformed reports a submission missing fields or carrying the wrong types.
func Malformed[F any]() Result[F] {
	return Result[F]{
		Kind:   KindInvalid,
		Status: http.StatusBadRequest,
		Data:   &ActionData[F]{FormError: MalformedMessage},
	}
}

func Invalid[F any](fields F, errs FieldErrors) Result[F] {
	return Result[F]{
		Kind:   KindInvalid,
		Status: http.StatusBadRequest,
		Data:   &ActionData[F]{Fields: &fields, FieldErrors: errs},
	}
}

// Rejected carries a form-level message for input that validated but was
// refused, such as bad credentials.
func Rejected[F any](fields F, message string) Result[F] {
	return Result[F]{
		Kind:   KindInvalid,
		Status: http.StatusBadRequest,
		Data:   &ActionData[F]{Fields: &fields, FormError: message},
	}
}

func Fail[F any](status int, message string) Result[F] {
	return Result[F]{
		Kind:    KindError,
		Status:  status,
		Message: message,
	}
}

func (r Result[F]) OK() bool {
	return r.Kind == KindRedirect
}
