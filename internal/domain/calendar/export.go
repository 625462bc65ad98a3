package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const productID = "-//TourDesk//Admin Calendar//EN"

// uidNamespace - пространство имен для стабильных UID событий.
var uidNamespace = uuid.MustParse("6f1c7f5e-3a0b-4f53-9d7c-2f0c1d6b8a41")

// UID возвращает стабильный UID события для iCalendar.
func UID(ev Event) string {
	return uuid.NewSHA1(uidNamespace, []byte(ev.ID.String())).String()
}

// Export пишет события в формате iCalendar.
func Export(w io.Writer, events []Event, name string) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	if name != "" {
		cal.Props.SetText(ical.PropName, name)
	}

	stamp := time.Now().UTC()
	for _, ev := range events {
		if ev.Start.IsZero() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, UID(ev))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetText(ical.PropSummary, ev.Title)
		event.Props.SetDateTime(ical.PropDateTimeStart, ev.Start.UTC())
		if !ev.End.IsZero() {
			event.Props.SetDateTime(ical.PropDateTimeEnd, ev.End.UTC())
		}
		if ev.Level != "" {
			event.Props.SetText(ical.PropCategories, string(ev.Level))
			event.Props.SetText(ical.PropColor, ev.Level.Color())
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return ErrNoEvents
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("ошибка экспорта календаря: %w", err)
	}
	return nil
}
