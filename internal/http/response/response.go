// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: ошибок, сообщений валидации
// и соответствия доменных ошибок HTTP‑статусам.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/virtudress/tryon-catalog/internal/domain"
)

// ErrorResponse структура ошибки, также используется в аннотациях @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// ValidationResponse ответ 400 с ошибками по полям.
type ValidationResponse struct {
	Status string            `json:"status" example:"Error"`
	Errors map[string]string `json:"errors"`
}

// MessageResponse короткий ответ об успешном действии.
type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"

	// InternalError текст, который получает клиент при любой непредвиденной ошибке.
	InternalError = "internal error"
)

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// Message возвращает MessageResponse.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// ValidationError формирует ответ с человеко‑читаемым текстом для каждого поля.
func ValidationError(errs validator.ValidationErrors) ValidationResponse {
	fields := make(map[string]string, len(errs))

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			fields[err.Field()] = fmt.Sprintf("%s is required", err.Field())
		case "email":
			fields[err.Field()] = "invalid email address"
		case "numeric":
			fields[err.Field()] = fmt.Sprintf("%s can contain only numbers", err.Field())
		case "len":
			fields[err.Field()] = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "min":
			fields[err.Field()] = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "url":
			fields[err.Field()] = fmt.Sprintf("%s must be a valid url", err.Field())
		case "uuid":
			fields[err.Field()] = fmt.Sprintf("%s can contain only uuid", err.Field())
		default:
			fields[err.Field()] = fmt.Sprintf("%s is not valid", err.Field())
		}
	}
	return ValidationResponse{
		Status: StatusError,
		Errors: fields,
	}
}

// HTTPStatus сопоставляет доменную ошибку HTTP‑статусу.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrSignatureMismatch),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorFor возвращает статус и тело ответа для ошибки. Для 5xx клиент получает
// только InternalError, подробности остаются в логах.
func ErrorFor(err error, msg string) (int, ErrorResponse) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		return status, Error(InternalError)
	}
	return status, Error(msg)
}
