// Package pathparam читает параметры пути chi в раскодированном виде.
package pathparam

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
)

// Unescaped возвращает параметр пути name без процентного кодирования.
// chi сопоставляет маршрут по r.URL.RawPath, если он задан, и тогда параметр
// приходит закодированным (например, "creators%2Fana").
func Unescaped(r *http.Request, name string) (string, error) {
	const op = "pathparam.Unescaped"
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	unescaped, err := url.PathUnescape(value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return unescaped, nil
}
