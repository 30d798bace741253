package apperrors

import "net/http"

// Factories and predefined variables for DevLink's domain errors.

func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// --- auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrNotApproved = New(
	CodeForbidden,
	"auth",
	"Account is pending approval",
	http.StatusForbidden,
)

// --- engagement ---

// ErrSelfTarget is returned by every toggle when actor == target.
var ErrSelfTarget = New(
	CodeInvalidOperation,
	"engagement",
	"Operation on self is not allowed",
	http.StatusBadRequest,
)

var ErrUnknownSkill = New(
	CodeValidationFailed,
	"engagement",
	"Skill is not declared on the target profile",
	http.StatusBadRequest,
)

// --- service requests ---

var ErrRequestNotPending = New(
	CodeInvalidStatus,
	"service_request",
	"Request is not in a pending state",
	http.StatusConflict,
)

var ErrRequestNotAccepted = New(
	CodeInvalidStatus,
	"service_request",
	"Request is not in an accepted state",
	http.StatusConflict,
)

// --- testimonials ---

var ErrTestimonialModerated = New(
	CodeInvalidStatus,
	"testimonial",
	"Testimonial has already been moderated",
	http.StatusConflict,
)
