// Package month содержит вспомогательные функции для работы с календарными месяцами.
package month

import "time"

// Layout формат месяца подписки.
const Layout = "2006-01"

// LastDay возвращает последний день календарного месяца, в который попадает t.
func LastDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// EndMonth возвращает месяц окончания подписки, оформленной в момент t, в формате YYYY-MM.
func EndMonth(t time.Time) string {
	return LastDay(t).Format(Layout)
}
