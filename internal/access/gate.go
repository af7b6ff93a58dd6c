// Package access управляет админ-сессией и общими настройками приложения.
//
// Проверки здесь рекомендательные: настройки меняются без серверной авторизации,
// а админ-код сравнивается вне ядра. Блокировки после неверных попыток нет.
package access

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/audit"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// Feature - действие, доступ к которому проверяет Gate.
type Feature int

const (
	// FeatureEditLines - правка и удаление отдельных строк заказа.
	FeatureEditLines Feature = iota + 1
	// FeatureViewLog - просмотр журнала действий.
	FeatureViewLog
	// FeatureReset - удаление всех заказов.
	FeatureReset
)

func (f Feature) String() string {
	switch f {
	case FeatureEditLines:
		return "edit lines"
	case FeatureViewLog:
		return "view log"
	case FeatureReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Session - эфемерный контекст пользователя. Не сохраняется.
type Session struct {
	mu         sync.RWMutex
	admin      bool
	deviceInfo string
}

// NewSession создаёт обычную (не админскую) сессию.
func NewSession(deviceInfo string) *Session {
	return &Session{deviceInfo: deviceInfo}
}

// IsAdmin сообщает, открыта ли админ-сессия.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// DeviceInfo возвращает исходную строку клиента для журнала.
func (s *Session) DeviceInfo() string {
	return s.deviceInfo
}

func (s *Session) setAdmin(v bool) {
	s.mu.Lock()
	s.admin = v
	s.mu.Unlock()
}

// Gate проверяет доступ и хранит снимок настроек.
type Gate struct {
	verifier domain.AdminVerifier
	store    domain.SettingsStore
	trail    *audit.Trail
	logger   *log.Entry

	mu       sync.RWMutex
	settings domain.Settings
}

// NewGate создаёт Gate. trail может быть nil, тогда действия не журналируются.
func NewGate(verifier domain.AdminVerifier, store domain.SettingsStore, trail *audit.Trail, logger *log.Entry) *Gate {
	if logger == nil {
		logger = log.WithField("component", "access-gate")
	}
	return &Gate{verifier: verifier, store: store, trail: trail, logger: logger}
}

// LoadSettings перечитывает настройки из хранилища.
func (g *Gate) LoadSettings(ctx context.Context) (domain.Settings, error) {
	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, domain.Unavailable("get settings", err)
	}
	g.setSettings(settings)
	return settings, nil
}

// Settings возвращает последний подтверждённый снимок настроек.
func (g *Gate) Settings() domain.Settings {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settings
}

func (g *Gate) setSettings(s domain.Settings) {
	g.mu.Lock()
	g.settings = s
	g.mu.Unlock()
}

// Login открывает админ-сессию, если хранилище подтвердило код.
// Неверный код возвращает ErrInvalidAdminCode и не меняет сессию.
func (g *Gate) Login(ctx context.Context, sess *Session, code string) error {
	if sess == nil {
		return domain.ErrAdminRequired
	}
	ok, err := g.verifier.VerifyAdmin(ctx, code)
	if err != nil {
		return domain.Unavailable("verify admin", err)
	}
	if !ok {
		g.logger.Info("admin code rejected")
		return domain.ErrInvalidAdminCode
	}

	sess.setAdmin(true)
	g.record(ctx, sess, audit.ActionAdminLogin, "admin mode enabled")
	return nil
}

// Logout закрывает админ-сессию. Повторный вызов ничего не делает.
func (g *Gate) Logout(ctx context.Context, sess *Session) {
	if sess == nil || !sess.IsAdmin() {
		return
	}
	sess.setAdmin(false)
	g.record(ctx, sess, audit.ActionAdminLogout, "admin mode disabled")
}

// Authorize проверяет доступ сессии к функции по текущим настройкам.
func (g *Gate) Authorize(sess *Session, feature Feature) error {
	switch feature {
	case FeatureEditLines:
		if !g.Settings().IsEditMode {
			return domain.ErrEditModeDisabled
		}
		return nil
	case FeatureViewLog, FeatureReset:
		if sess == nil || !sess.IsAdmin() {
			return domain.ErrAdminRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown feature %d", domain.ErrUnauthorized, int(feature))
	}
}

// SetEditMode включает или выключает режим редактирования строк.
// Серверной авторизации нет: переключатель скрывает интерфейс, а не защищает данные.
func (g *Gate) SetEditMode(ctx context.Context, sess *Session, on bool) (domain.Settings, error) {
	settings, err := g.update(ctx, domain.SettingsPatch{IsEditMode: &on})
	if err != nil {
		return domain.Settings{}, err
	}
	state := "off"
	if on {
		state = "on"
	}
	g.record(ctx, sess, audit.ActionSettingsChanged, "edit mode "+state)
	return settings, nil
}

// SetPaymentLink сохраняет ссылку на оплату.
func (g *Gate) SetPaymentLink(ctx context.Context, sess *Session, link string) (domain.Settings, error) {
	settings, err := g.update(ctx, domain.SettingsPatch{PaymentLink: &link})
	if err != nil {
		return domain.Settings{}, err
	}
	g.record(ctx, sess, audit.ActionSettingsChanged, "payment link updated")
	return settings, nil
}

func (g *Gate) update(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	settings, err := g.store.UpdateSettings(ctx, patch)
	if err != nil {
		return domain.Settings{}, domain.Unavailable("update settings", err)
	}
	g.setSettings(settings)
	return settings, nil
}

func (g *Gate) record(ctx context.Context, sess *Session, action, details string) {
	if g.trail == nil {
		return
	}
	device := ""
	if sess != nil {
		device = sess.DeviceInfo()
	}
	g.trail.Record(ctx, device, action, details, "")
}
