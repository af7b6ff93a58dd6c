package domain

import (
	"errors"
	"fmt"
)

// Категории ошибок. Каждая конкретная ошибка ниже оборачивает ровно одну категорию,
// поэтому вызывающая сторона может ветвиться через errors.Is по категории.
var (
	// ErrValidation - некорректный ввод пользователя; состояние не меняется.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized - действие не разрешено текущей сессией или настройками.
	ErrUnauthorized = errors.New("not authorized")
	// ErrUnavailable - хранилище/транспорт не подтвердили операцию.
	ErrUnavailable = errors.New("collaborator unavailable")
	// ErrNotFound - цель мутации уже не существует (например, удалена в другой сессии).
	ErrNotFound = errors.New("not found")
)

var (
	// Ошибка пустого имени заказчика.
	ErrCustomerNameRequired = fmt.Errorf("%w: customer name is required", ErrValidation)
	// Ошибка, если в черновике нет ни одной строки с позицией меню и quantity > 0.
	ErrNoValidLines = fmt.Errorf("%w: order must contain at least one valid item", ErrValidation)
	// Ошибка пустого списка позиций в уже существующем заказе.
	ErrItemsRequired = fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	// Ошибка при количестве позиции меньше единицы.
	ErrItemQtyInvalid = fmt.Errorf("%w: item quantity must be greater than zero", ErrValidation)
	// Ошибка отрицательной цены позиции.
	ErrItemPriceInvalid = fmt.Errorf("%w: item price must be non-negative", ErrValidation)
	// Ошибка несоответствия total_price сумме позиций.
	ErrAmountMismatch = fmt.Errorf("%w: order total does not match items sum", ErrValidation)
	// ErrConfirmationRequired возвращается при сбросе без явного подтверждения.
	ErrConfirmationRequired = fmt.Errorf("%w: reset requires explicit confirmation", ErrValidation)

	// ErrInvalidAdminCode - неверный админ-код. Блокировок и задержек нет.
	ErrInvalidAdminCode = fmt.Errorf("%w: incorrect admin code", ErrUnauthorized)
	// ErrAdminRequired - функция доступна только в админ-сессии.
	ErrAdminRequired = fmt.Errorf("%w: admin session required", ErrUnauthorized)
	// ErrEditModeDisabled - правка строк заказа возможна только в режиме редактирования.
	ErrEditModeDisabled = fmt.Errorf("%w: edit mode is off", ErrUnauthorized)

	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
	// ErrLineNotFound возвращается, если индекс строки вне диапазона позиций заказа.
	ErrLineNotFound = fmt.Errorf("order line %w", ErrNotFound)
	// ErrSettingsNotFound - запись настроек ещё не создана.
	ErrSettingsNotFound = fmt.Errorf("settings %w", ErrNotFound)
	// ErrOrderExists - заказ с таким ID уже сохранён.
	ErrOrderExists = errors.New("order already exists")
)

// IsValidation проверяет, относится ли ошибка к ошибкам валидации.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorized проверяет, является ли ошибка отказом в доступе.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsUnavailable проверяет, что операция не подтверждена хранилищем.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsNotFound проверяет, что цель мутации отсутствует.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type unavailableError struct {
	op  string
	err error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.op, ErrUnavailable.Error(), e.err)
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}

// Unavailable оборачивает сбой хранилища/сети в категорию ErrUnavailable.
// Ошибки, уже имеющие категорию (NotFound, Validation, Unauthorized, Unavailable), возвращаются как есть.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsValidation(err) || IsUnauthorized(err) || IsUnavailable(err) {
		return err
	}
	return &unavailableError{op: op, err: err}
}
