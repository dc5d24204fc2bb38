package proxy

import "strings"

// DefaultContentType используется, когда заголовок Content-Type отсутствует
const DefaultContentType = "text/plain"

// ContentType ищет заголовок content-type без учета регистра имени.
// Если заголовок встречается несколько раз, берется последний.
func ContentType(headers map[string][]string) string {
	output := DefaultContentType
	for name, values := range headers {
		if strings.EqualFold(name, "content-type") && len(values) > 0 {
			output = values[len(values)-1]
		}
	}
	return output
}

// IsJSON сообщает, содержит ли тип application/json
func IsJSON(mimetype string) bool {
	return strings.Contains(mimetype, "application/json")
}
