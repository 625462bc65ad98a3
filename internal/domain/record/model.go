package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const FieldID = "id"

// Record - запись сервера произвольной формы.
// Порядок полей сохраняется таким, каким его прислал сервер.
type Record struct {
	keys   []string
	values map[string]any
}

// Field - пара имя/значение для построения записи.
type Field struct {
	Key   string
	Value any
}

// New создает запись из упорядоченного набора полей.
func New(fields ...Field) *Record {
	r := &Record{values: make(map[string]any, len(fields))}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.values == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Set добавляет поле в конец или заменяет значение на месте.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys возвращает имена полей в исходном порядке.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// ID возвращает обязательный целочисленный идентификатор.
func (r *Record) ID() (int, error) {
	v, ok := r.Get(FieldID)
	if !ok || v == nil {
		return 0, ErrNoID
	}
	id, ok := AsInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: id %v", ErrInvalidData, v)
	}
	return id, nil
}

// Clone копирует запись. Галерея копируется отдельно, файлы разделяются.
func (r *Record) Clone() *Record {
	c := &Record{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]any, len(r.values)),
	}
	for k, v := range r.values {
		if g, ok := v.([]GalleryItem); ok {
			v = append([]GalleryItem(nil), g...)
		}
		c.values[k] = v
	}
	return c
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonValue(r.values[k]))
		if err != nil {
			return nil, fmt.Errorf("поле %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object", ErrInvalidData)
	}

	r.keys = nil
	r.values = make(map[string]any)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: bad key %v", ErrInvalidData, tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("поле %s: %w", key, err)
		}
		r.Set(key, v)
	}

	_, err = dec.Token()
	return err
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case *File:
		return val.Name
	case []GalleryItem:
		out := make([]map[string]string, 0, len(val))
		for _, item := range val {
			out = append(out, map[string]string{"image": item.String()})
		}
		return out
	default:
		return v
	}
}

// AsInt приводит числовое значение к int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

// Text возвращает строковое представление значения поля.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case *File:
		return val.Name
	case fmt.Stringer:
		return val.String()
	default:
		data, err := json.Marshal(jsonValue(v))
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
