package service

import "fmt"

// здесь живут ошибки бизнес-логики слоя оркестрации

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(resource string, id int64) *BusinessError {
	return &BusinessError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %d не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewIntegrityError — проверка после каскадного удаления обнаружила,
// что корень агрегата всё ещё читается из хранилища.
func NewIntegrityError(resource string, id int64) *BusinessError {
	return &BusinessError{
		Code:    "INTEGRITY_ERROR",
		Message: fmt.Sprintf("%s %d читается после удаления", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}
