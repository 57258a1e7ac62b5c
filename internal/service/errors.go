package service

import "fmt"

const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeOutOfRange = "OUT_OF_RANGE"
)

// BusinessError — ошибка бизнес-логики, возвращаемая вызывающему.
// Ни одна из них не фатальна для процесса.
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

func NewNotFound(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("задача %s не найдена", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewOutOfRange(field string, index, length int) *BusinessError {
	return &BusinessError{
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("Индекс %d вне диапазона поля '%s' (длина %d)", index, field, length),
		Details: map[string]any{
			"field":  field,
			"index":  index,
			"length": length,
		},
	}
}
