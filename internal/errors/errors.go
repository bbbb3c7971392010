package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound           = NewAppError("NOT_FOUND", "Recurso não encontrado", http.StatusNotFound)
	ErrUnauthorized       = NewAppError("UNAUTHORIZED", "Não autorizado", http.StatusUnauthorized)
	ErrForbidden          = NewAppError("FORBIDDEN", "Acesso negado", http.StatusForbidden)
	ErrBadRequest         = NewAppError("BAD_REQUEST", "Requisição inválida", http.StatusBadRequest)
	ErrInternalServer     = NewAppError("INTERNAL_SERVER_ERROR", "Erro interno do servidor", http.StatusInternalServerError)
	ErrConflict           = NewAppError("CONFLICT", "Conflito de recursos", http.StatusConflict)
	ErrValidation         = NewAppError("VALIDATION_ERROR", "Erro de validação", http.StatusBadRequest)
	ErrDatabase           = NewAppError("DATABASE_ERROR", "Erro no banco de dados", http.StatusInternalServerError)
	ErrInvalidCredentials = NewAppError("INVALID_CREDENTIALS", "Credenciais inválidas", http.StatusUnauthorized)
	ErrEmailAlreadyExists = NewAppError("EMAIL_ALREADY_EXISTS", "Email já cadastrado", http.StatusConflict)
	ErrUserNotFound       = NewAppError("USER_NOT_FOUND", "Usuário não encontrado", http.StatusNotFound)
	ErrCampaignNotFound   = NewAppError("CAMPAIGN_NOT_FOUND", "Campanha não encontrada", http.StatusNotFound)
	ErrDonationNotFound   = NewAppError("DONATION_NOT_FOUND", "Doação não encontrada", http.StatusNotFound)
	ErrPaymentNotFound    = NewAppError("PAYMENT_NOT_FOUND", "Pagamento não encontrado", http.StatusNotFound)
	ErrRootNotFound       = NewAppError("ROOT_CAMPAIGN_NOT_FOUND", "Campanha institucional não definida", http.StatusNotFound)
	ErrResourceNotOwned   = NewAppError("RESOURCE_NOT_OWNED", "Recurso não pertence ao usuário", http.StatusForbidden)
)

type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := e.clone()
	if details == nil {
		clone.Details = make(map[string]interface{})
		return clone
	}
	clone.Details = make(map[string]interface{}, len(details))
	for k, v := range details {
		clone.Details[k] = v
	}
	return clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := e.clone()
	clone.Err = err
	return clone
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

func WrapError(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
		Details:    make(map[string]interface{}),
	}
}

func (e *AppError) clone() *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Details != nil {
		clone.Details = make(map[string]interface{}, len(e.Details))
		for k, v := range e.Details {
			clone.Details[k] = v
		}
	} else {
		clone.Details = make(map[string]interface{})
	}
	return &clone
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	if errors.Is(err, context.Canceled) {
		return WrapError(err, "REQUEST_CANCELED", "Requisição cancelada pelo cliente", http.StatusRequestTimeout)
	}

	return WrapError(err, "UNKNOWN_ERROR", "Erro desconhecido", http.StatusInternalServerError)
}

// NewInvalidTransitionError identifica o par (from, to) rejeitado para que a
// camada HTTP não precise interpretar mensagens.
func NewInvalidTransitionError(entity, from, to string) *AppError {
	return &AppError{
		Code:       "INVALID_TRANSITION",
		Message:    fmt.Sprintf("Transição de %s para %s não permitida para %s", from, to, entity),
		StatusCode: http.StatusConflict,
		Details: map[string]interface{}{
			"entity": entity,
			"from":   from,
			"to":     to,
		},
	}
}

func NewExclusivityViolationError(field string) *AppError {
	return &AppError{
		Code:       "EXCLUSIVITY_VIOLATION",
		Message:    fmt.Sprintf("Apenas um registro pode ter %s ativo", field),
		StatusCode: http.StatusConflict,
		Details: map[string]interface{}{
			"field": field,
		},
	}
}

func NewInvalidRangeError(start, end string) *AppError {
	return &AppError{
		Code:       "INVALID_RANGE",
		Message:    "Data inicial deve ser anterior ou igual à data final",
		StatusCode: http.StatusBadRequest,
		Details: map[string]interface{}{
			"start_date": start,
			"end_date":   end,
		},
	}
}

func NewConcurrentModificationError(entity, id string) *AppError {
	return &AppError{
		Code:       "CONCURRENT_MODIFICATION",
		Message:    "Registro foi modificado por outra requisição, tente novamente",
		StatusCode: http.StatusConflict,
		Details: map[string]interface{}{
			"entity": entity,
			"id":     id,
		},
	}
}

func NewAuthError(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Details:    make(map[string]interface{}),
	}
}

func NewValidationError(field, message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: map[string]interface{}{
			"field": field,
		},
	}
}

func NewDatabaseError(err error) *AppError {
	return WrapError(err, "DATABASE_ERROR", "Erro ao executar operação no banco de dados", http.StatusInternalServerError)
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s não encontrado", resource),
		StatusCode: http.StatusNotFound,
		Details: map[string]interface{}{
			"resource": resource,
		},
	}
}

func NewConflictError(resource string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    fmt.Sprintf("%s já existe", resource),
		StatusCode: http.StatusConflict,
		Details: map[string]interface{}{
			"resource": resource,
		},
	}
}

func ParseValidationErrors(err error) *AppError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ErrBadRequest.WithError(err)
	}

	fieldErrors := make([]map[string]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		translatedField := translateFieldName(fieldErr.Field())
		fieldErrors = append(fieldErrors, map[string]string{
			"field":   translatedField,
			"message": translateValidationError(fieldErr),
		})
	}

	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "Erro de validação nos campos",
		StatusCode: http.StatusBadRequest,
		Details: map[string]interface{}{
			"fields": fieldErrors,
		},
	}
}

func translateFieldName(field string) string {
	fieldLower := strings.ToLower(field)
	fieldMap := map[string]string{
		"amount":        "valor",
		"campaign_id":   "campanha",
		"campaignid":    "campanha",
		"donation_id":   "doação",
		"donationid":    "doação",
		"method":        "método de pagamento",
		"periodicity":   "periodicidade",
		"title":         "título",
		"description":   "descrição",
		"name":          "nome",
		"email":         "email",
		"password":      "senha",
		"start_date":    "data inicial",
		"startdate":     "data inicial",
		"end_date":      "data final",
		"enddate":       "data final",
		"target_amount": "valor alvo",
		"targetamount":  "valor alvo",
	}
	if translated, ok := fieldMap[fieldLower]; ok {
		return translated
	}
	return field
}

func translateValidationError(fe validator.FieldError) string {
	fieldName := translateFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", fieldName)
	case "email":
		return "Email inválido"
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s caracteres", fieldName, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", fieldName, fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", fieldName, fe.Param())
	case "lte":
		return fmt.Sprintf("%s deve ser menor ou igual a %s", fieldName, fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", fieldName, fe.Param())
	case "lt":
		return fmt.Sprintf("%s deve ser menor que %s", fieldName, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um dos valores: %s", fieldName, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s deve ser uma data/hora válida", fieldName)
	case "numeric":
		return fmt.Sprintf("%s deve ser um valor numérico", fieldName)
	default:
		return fmt.Sprintf("Validação '%s' falhou para %s", fe.Tag(), fieldName)
	}
}
