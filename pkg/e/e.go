package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 401 Unauthorized
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// 400 Bad Request
	ErrUserExists        = fmt.Errorf("user already exists")
	ErrUserInactive      = fmt.Errorf("user is inactive")
	ErrCartEmpty         = fmt.Errorf("cart is empty")
	ErrInsufficientStock = fmt.Errorf("insufficient stock")

	// 403 Forbidden
	ErrAdminRequired = fmt.Errorf("admin privileges required")

	// 404 Not Found
	ErrNotFound = fmt.Errorf("not found")

	// 422 Unprocessable Entity
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrInvalidPrice   = fmt.Errorf("invalid price")
	ErrPricePrecision = fmt.Errorf("price must have at most 2 decimal places")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
