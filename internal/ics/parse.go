package ics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"meetprep/internal/event"
)

// Parse decodes an .ics payload and returns the event descriptor for its
// first VEVENT plus any ATTACH URIs found on it. Attachment summaries are
// filled in later by the caller; Duration is derived from DTSTART/DTEND.
func Parse(data []byte) (*event.Descriptor, []string, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, nil, fmt.Errorf("decode ics: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return nil, nil, fmt.Errorf("ics contains no VEVENT")
	}
	ev := events[0]

	title, err := ev.Props.Text(ical.PropSummary)
	if err != nil {
		return nil, nil, fmt.Errorf("read SUMMARY: %w", err)
	}
	description, err := ev.Props.Text(ical.PropDescription)
	if err != nil {
		return nil, nil, fmt.Errorf("read DESCRIPTION: %w", err)
	}

	start, err := propDateTime(&ev, ical.PropDateTimeStart)
	if err != nil {
		return nil, nil, err
	}
	end, err := propDateTime(&ev, ical.PropDateTimeEnd)
	if err != nil {
		return nil, nil, err
	}

	desc := &event.Descriptor{
		Title:        title,
		Description:  description,
		Start:        start,
		End:          end,
		Duration:     end.Sub(start),
		Participants: len(ev.Props.Values(ical.PropAttendee)),
	}

	var attachments []string
	for _, prop := range ev.Props.Values(ical.PropAttach) {
		if prop.Value != "" {
			attachments = append(attachments, prop.Value)
		}
	}

	return desc, attachments, nil
}

func propDateTime(ev *ical.Event, name string) (time.Time, error) {
	prop := ev.Props.Get(name)
	if prop == nil {
		return time.Time{}, fmt.Errorf("ics event is missing %s", name)
	}
	t, err := prop.DateTime(time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}
