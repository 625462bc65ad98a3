package calendar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tourdesk/internal/domain/record"
)

const DisplayBlock = "block"

var (
	ErrInvalidEvent  = errors.New("invalid event")
	ErrNotFound      = errors.New("event not found")
	ErrPastSelection = errors.New("cannot select a range in the past")
	ErrNothingOpen   = errors.New("no event is open")
	ErrUnknownLevel  = errors.New("unknown event level")
	ErrNoEvents      = errors.New("no events to export")
)

// Level - категория события.
type Level string

const (
	LevelPersonal Level = "Personal"
	LevelBusiness Level = "Business"
	LevelFamily   Level = "Family"
	LevelHoliday  Level = "Holiday"
	LevelSummary  Level = "Summary"
)

// Levels перечисляет категории в порядке показа.
var Levels = []Level{LevelPersonal, LevelBusiness, LevelFamily, LevelHoliday, LevelSummary}

var levelColors = map[Level]string{
	LevelPersonal: "danger",
	LevelBusiness: "success",
	LevelFamily:   "primary",
	LevelHoliday:  "warning",
	LevelSummary:  "secondary",
}

func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if _, ok := levelColors[l]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLevel, s)
	}
	return l, nil
}

// Color возвращает цвет отображения категории.
func (l Level) Color() string {
	return levelColors[l]
}

// ID - идентификатор события в том виде, в каком его прислал сервер.
// Разные каналы присылают id то числом, то строкой.
type ID struct {
	raw    string
	quoted bool
}

// NumericID создает числовой идентификатор.
func NumericID(n int) ID {
	return ID{raw: strconv.Itoa(n)}
}

// StringID создает строковый идентификатор.
func StringID(s string) ID {
	return ID{raw: s, quoted: true}
}

// Equal - строгое сравнение с учетом представления.
func (id ID) Equal(other ID) bool {
	return id == other
}

// SameAs сравнивает идентификаторы как строки.
func (id ID) SameAs(other ID) bool {
	return id.raw == other.raw
}

func (id ID) IsZero() bool {
	return id.raw == ""
}

func (id ID) String() string {
	return id.raw
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.quoted {
		return json.Marshal(id.raw)
	}
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ID{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: id %s", ErrInvalidEvent, data)
		}
		*id = ID{raw: n.String()}
	}
	return nil
}

// Event - событие календаря в форме для отображения.
type Event struct {
	ID      ID        `json:"id"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Level   Level     `json:"event_level"`
	Display string    `json:"display"`
}

// Wire - событие в формате сервера.
type Wire struct {
	ID         ID     `json:"id"`
	Title      string `json:"title"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	EventLevel Level  `json:"event_level"`
}

// Normalize приводит событие сервера к форме отображения.
// Неразборчивая дата превращается в нулевое время.
func Normalize(w Wire) Event {
	start, _ := record.ParseTime(w.StartDate)
	end, _ := record.ParseTime(w.EndDate)
	return Event{
		ID:      w.ID,
		Title:   w.Title,
		Start:   start.UTC(),
		End:     end.UTC(),
		Level:   w.EventLevel,
		Display: DisplayBlock,
	}
}
