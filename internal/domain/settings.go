package domain

// Settings - единственный общий экземпляр настроек приложения.
type Settings struct {
	PaymentLink string `json:"payment_link"`
	IsEditMode  bool   `json:"is_edit_mode"`
}

// SettingsPatch - частичное обновление настроек; nil означает "не менять".
type SettingsPatch struct {
	PaymentLink *string `json:"payment_link,omitempty"`
	IsEditMode  *bool   `json:"is_edit_mode,omitempty"`
}

// Apply возвращает копию настроек с применённым патчем.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.PaymentLink != nil {
		s.PaymentLink = *p.PaymentLink
	}
	if p.IsEditMode != nil {
		s.IsEditMode = *p.IsEditMode
	}
	return s
}

// Empty сообщает, что патч ничего не меняет.
func (p SettingsPatch) Empty() bool {
	return p.PaymentLink == nil && p.IsEditMode == nil
}
