package action

import (
	"encoding/json"
	"fmt"
	"time"
)

// ServiceS3 - тег сервиса, действия которого выполняются на контейнере.
// Дескрипторы с другими тегами возвращаются без изменений.
const ServiceS3 = "s3"

// Action - действие в терминах S3
type Action string

const (
	// Неизвестные значения не являются ошибкой: дескриптор проходит насквозь
	ListObjects  Action = "listObjects"
	PutObject    Action = "putObject"
	DeleteObject Action = "deleteObject"
	GetObject    Action = "getObject"
)

// ParseAction возвращает действие и признак того, что оно поддерживается
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ListObjects, PutObject, DeleteObject, GetObject:
		return a, true
	default:
		return "", false
	}
}

// String возвращает строковое представление действия
func (a Action) String() string {
	return string(a)
}

// Descriptor - одна инструкция из списка Send ответа бэкенда
type Descriptor struct {
	Service string
	Action  string
	Params  map[string]any
}

// param возвращает строковое значение параметра. Нестроковые скаляры
// приводятся к строке, отсутствующий параметр дает пустую строку.
func (d Descriptor) param(name string) string {
	v, ok := d.Params[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Key возвращает Params.Key
func (d Descriptor) Key() string {
	return d.param("Key")
}

// parseDescriptor разбирает элемент списка Send. Имена полей сравниваются
// с учетом регистра. Второе значение false, если элемент не является объектом.
func parseDescriptor(raw json.RawMessage) (Descriptor, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Descriptor{}, false
	}

	var d Descriptor
	if v, ok := fields["Service"]; ok {
		_ = json.Unmarshal(v, &d.Service)
	}
	if v, ok := fields["Action"]; ok {
		_ = json.Unmarshal(v, &d.Action)
	}
	if v, ok := fields["Params"]; ok {
		_ = json.Unmarshal(v, &d.Params)
	}
	return d, true
}

// ObjectSummary - элемент Contents результата listObjects
type ObjectSummary struct {
	Key          string     `json:"Key"`
	Size         int64      `json:"Size"`
	LastModified *time.Time `json:"LastModified,omitempty"`
}

// ListResult - результат listObjects
type ListResult struct {
	Contents []ObjectSummary `json:"Contents"`
}

// Result - итог трансляции ответа бэкенда
type Result struct {
	// StatusCode - 200 или 400
	StatusCode int

	// ContentType ответа клиенту
	ContentType string

	// Body - тело ответа клиенту
	Body []byte
}
