package domain

import "context"

// Порты внешнего исполнителя (persistence/transport). Ядро обращается к хранилищу только через них;
// каждый вызов - синхронный запрос-ответ, ответ считается авторитетным.

// MenuSource отдаёт каталог меню.
type MenuSource interface {
	GetMenu(ctx context.Context) ([]MenuItem, error)
}

// OrderStore хранит заказы и пересчитывает total_price на каждой принятой мутации.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]Order, error)
	CreateOrder(ctx context.Context, customerName string, items []OrderLine) (Order, error)
	UpdateOrder(ctx context.Context, orderID string, patch OrderPatch) (Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

// SettingsStore хранит общие настройки.
type SettingsStore interface {
	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error)
}

// AdminVerifier проверяет админ-код вне ядра; ядро видит только булев результат.
type AdminVerifier interface {
	VerifyAdmin(ctx context.Context, code string) (bool, error)
}

// Resetter удаляет все заказы.
type Resetter interface {
	ResetAll(ctx context.Context) error
}

// AuditLog - журнал действий. Timestamp и ClientIP проставляются на стороне хранилища.
type AuditLog interface {
	ListAuditLog(ctx context.Context) ([]AuditEntry, error)
	AppendAuditLog(ctx context.Context, record AuditRecord) (AuditEntry, error)
}

// Collaborator объединяет все операции внешнего исполнителя.
type Collaborator interface {
	MenuSource
	OrderStore
	SettingsStore
	AdminVerifier
	Resetter
	AuditLog
}

// Репозитории серверной стороны. Ими пользуется backend-сервис, реализующий Collaborator.

// MenuRepository хранит позиции меню.
type MenuRepository interface {
	List(ctx context.Context) ([]MenuItem, error)
	// ReplaceAll атомарно заменяет всё меню.
	ReplaceAll(ctx context.Context, items []MenuItem) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// List возвращает все заказы в порядке создания.
	List(ctx context.Context) ([]Order, error)
	// Save перезаписывает заказ целиком (позиции, сумму, статус оплаты).
	Save(ctx context.Context, order Order) error
	// Delete удаляет заказ или возвращает ErrOrderNotFound.
	Delete(ctx context.Context, id string) error
	// DeleteAll удаляет все заказы и возвращает их количество.
	DeleteAll(ctx context.Context) (int, error)
}

// SettingsRepository хранит единственную запись настроек.
type SettingsRepository interface {
	// Get возвращает настройки или ErrSettingsNotFound.
	Get(ctx context.Context) (Settings, error)
	// Create сохраняет настройки, если записи ещё нет.
	Create(ctx context.Context, settings Settings) error
	// Update применяет патч и возвращает итоговые настройки.
	Update(ctx context.Context, patch SettingsPatch) (Settings, error)
}

// AuditRepository хранит журнал действий.
type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) error
	// List возвращает записи от новых к старым; limit <= 0 - без ограничения.
	List(ctx context.Context, limit int) ([]AuditEntry, error)
	DeleteAll(ctx context.Context) (int, error)
}
