package models

import "sort"

// Subscription активная подписка на профиль.
// EndMonth информационное поле в формате YYYY-MM, не проверяется.
type Subscription struct {
	Tier          int     `json:"tier"`
	Opportunities int     `json:"opportunities"`
	Price         float64 `json:"price"`
	EndMonth      string  `json:"endMonth"`
}

// SubscriberView состояние элементов интерфейса подписчика (бейдж и баннер).
type SubscriberView struct {
	Visible       bool `json:"visible"`
	Opportunities int  `json:"opportunities,omitempty"`
}

// Tier уровень подписки из статического каталога.
type Tier struct {
	Key           int     `json:"key"`
	Name          string  `json:"name"`
	Opportunities int     `json:"opportunities"`
	Price         float64 `json:"price"`
	Description   string  `json:"description"`
}

var tiers = map[int]Tier{
	1: {
		Key:           1,
		Name:          "Starter",
		Opportunities: 4,
		Price:         2.99,
		Description:   "4 oportunidades = 4 tickets para los Moment-A's de este influencer durante el mes de tu suscripción.",
	},
	2: {
		Key:           2,
		Name:          "Creator",
		Opportunities: 8,
		Price:         4.99,
		Description:   "Todo lo de Starter + acceso al feed con publicaciones solo para suscriptores.",
	},
	3: {
		Key:           3,
		Name:          "Premium",
		Opportunities: 20,
		Price:         9.99,
		Description:   "Todo lo de Creator + lives con premios sorpresa.",
	},
}

// LookupTier возвращает уровень по ключу.
func LookupTier(key int) (Tier, bool) {
	t, ok := tiers[key]
	return t, ok
}

// Tiers возвращает весь каталог, отсортированный по ключу.
func Tiers() []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
