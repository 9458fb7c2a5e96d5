package models

import "errors"

// Сообщения для пользователя, соответствующие ошибкам ниже.
const (
	MsgDuplicateAccount   = "An account with this email or phone already exists."
	MsgInvalidCredentials = "Invalid credentials. Please try again."
)

var (
	// ErrDuplicateAccount учётная запись с таким email или телефоном уже существует.
	ErrDuplicateAccount = errors.New("an account with this email or phone already exists")
	// ErrInvalidCredentials идентификатор не найден или PIN не совпал. Причина намеренно не уточняется.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownTier ключ уровня вне каталога.
	ErrUnknownTier = errors.New("unknown subscription tier")
	// ErrPaymentNotFound платёж не найден в текущем браузерном контексте.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrStepNotAvailable шаг регистрации недоступен в текущем состоянии мастера.
	ErrStepNotAvailable = errors.New("step not available")
)

// ValidationError некорректный или неполный ввод пользователя.
// Message показывается пользователю как есть.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создаёт ValidationError с сообщением.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
