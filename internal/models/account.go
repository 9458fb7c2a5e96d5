// Package models содержит доменные структуры Moment-A: учётные записи,
// сессию, подписки на профили, платежи и события обновления интерфейса.
package models

// UserRecord представляет зарегистрированного пользователя в справочнике учётных записей.
// Email уникален без учёта регистра, телефон уникален точным совпадением.
type UserRecord struct {
	NationalID string `json:"dni"`   // Номер документа (DNI)
	Phone      string `json:"phone"` // Телефон
	Email      string `json:"email"` // Электронная почта
	PIN        string `json:"pin"`   // PIN из 6 цифр, хранится как есть
}

// SignupCandidate данные, собранные мастером регистрации перед созданием записи.
// MarketingOptIn не сохраняется.
type SignupCandidate struct {
	NationalID     string
	Phone          string
	Email          string
	PIN            string
	MarketingOptIn bool
}

// Record возвращает сохраняемую часть кандидата.
func (c SignupCandidate) Record() UserRecord {
	return UserRecord{
		NationalID: c.NationalID,
		Phone:      c.Phone,
		Email:      c.Email,
		PIN:        c.PIN,
	}
}

// SessionUser проекция текущего вошедшего пользователя.
type SessionUser struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}
