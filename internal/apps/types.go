package apps

import (
	"time"

	"github.com/worldbox/worldbox/internal/recurrence"
	"github.com/worldbox/worldbox/internal/store"
)

// Employee is one row of the company directory. Empty strings in Manager
// and Assistant mean the relationship does not exist.
type Employee struct {
	EmployeeID          string
	Name                string
	EmailAddress        string
	Mobile              string
	Team                string
	Role                string
	VideoConferenceLink string
	JoinedDate          time.Time
	BirthDate           time.Time
	Manager             string
	Assistant           string
	Reports             []string
	IsUser              bool
}

// Attachment is a document attached to a calendar event.
type Attachment struct {
	Title        string
	Content      string
	Author       []string
	NumPages     int
	LastModified time.Time
	CreatedOn    time.Time
	IsStarred    bool
	Folder       string
}

// Event is one calendar entry. A recurring event is stored as one row
// per occurrence: the first row keeps the event's identifier and its
// Repeats rule, later occurrences link back via RecurrentEventID.
type Event struct {
	EventID            string
	Subject            string
	Location           string
	Notes              string
	VideoLink          string
	Attendees          []string
	AttendeesToAvoid   []string
	OptionalAttendees  []string
	DeclinedBy         []string
	TentativeAttendees []string
	StartsAt           time.Time
	EndsAt             time.Time
	ShowAsStatus       string
	Importance         string
	Repeats            *recurrence.Spec
	Attachments        []Attachment
	RecurrentEventID   string
	OriginalStartsAt   time.Time
}

// TimeInterval is a half-open [Start, End) span of wall time.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two intervals share any time.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// ConferenceRoom is a bookable meeting room.
type ConferenceRoom struct {
	RoomID   string
	RoomName string
	Capacity int
}

// RoomAvailability pairs a room with its free intervals within a window.
type RoomAvailability struct {
	Room          ConferenceRoom
	FreeIntervals []TimeInterval
}

// Vacation is one contiguous absence of an employee.
type Vacation struct {
	EmployeeID string
	Starts     time.Time
	Ends       time.Time
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func stringList(values []string) any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func intList(values []int) any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func timeList(values []time.Time) any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	n, _ := v.(int64)
	return int(n)
}

func asStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, asString(item))
	}
	return out
}

func asInts(v any) []int {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, asInt(item))
	}
	return out
}

func asTimes(v any) []time.Time {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]time.Time, 0, len(items))
	for _, item := range items {
		out = append(out, asTime(item))
	}
	return out
}

func (e Employee) row() store.Row {
	return store.Row{
		"employee_id":           e.EmployeeID,
		"name":                  e.Name,
		"email_address":         e.EmailAddress,
		"mobile":                e.Mobile,
		"team":                  e.Team,
		"role":                  e.Role,
		"video_conference_link": e.VideoConferenceLink,
		"joined_date":           nullableTime(e.JoinedDate),
		"birth_date":            nullableTime(e.BirthDate),
		"manager":               nullableString(e.Manager),
		"assistant":             nullableString(e.Assistant),
		"reports":               stringList(e.Reports),
		"is_user":               e.IsUser,
	}
}

func employeeFromRow(row store.Row) Employee {
	return Employee{
		EmployeeID:          asString(row["employee_id"]),
		Name:                asString(row["name"]),
		EmailAddress:        asString(row["email_address"]),
		Mobile:              asString(row["mobile"]),
		Team:                asString(row["team"]),
		Role:                asString(row["role"]),
		VideoConferenceLink: asString(row["video_conference_link"]),
		JoinedDate:          asTime(row["joined_date"]),
		BirthDate:           asTime(row["birth_date"]),
		Manager:             asString(row["manager"]),
		Assistant:           asString(row["assistant"]),
		Reports:             asStrings(row["reports"]),
		IsUser:              asBool(row["is_user"]),
	}
}

func repeatsValue(r *recurrence.Spec) any {
	if r == nil {
		return nil
	}
	var until, on any
	if r.RecursUntil != nil {
		until = *r.RecursUntil
	}
	if r.OccurrenceOnDate != nil {
		on = *r.OccurrenceOnDate
	}
	var reps any
	if r.MaxRepetitions != nil {
		reps = int64(*r.MaxRepetitions)
	}
	return map[string]any{
		"frequency":          string(r.Frequency),
		"period":             int64(r.Period),
		"recurs_until":       until,
		"max_repetitions":    reps,
		"which_weekday":      intList(r.WhichWeekday),
		"which_month_day":    intList(r.WhichMonthDay),
		"which_year_month":   intList(r.WhichYearMonth),
		"bysetpos":           intList(r.BySetPos),
		"exclude_occurrence": timeList(r.ExcludeOccurrence),
		"occurrence_on_date": on,
	}
}

func repeatsFromValue(v any) *recurrence.Spec {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	spec := &recurrence.Spec{
		Frequency:         recurrence.Frequency(asString(m["frequency"])),
		Period:            asInt(m["period"]),
		WhichWeekday:      asInts(m["which_weekday"]),
		WhichMonthDay:     asInts(m["which_month_day"]),
		WhichYearMonth:    asInts(m["which_year_month"]),
		BySetPos:          asInts(m["bysetpos"]),
		ExcludeOccurrence: asTimes(m["exclude_occurrence"]),
	}
	if t, ok := m["recurs_until"].(time.Time); ok {
		spec.RecursUntil = &t
	}
	if n, ok := m["max_repetitions"].(int64); ok {
		reps := int(n)
		spec.MaxRepetitions = &reps
	}
	if t, ok := m["occurrence_on_date"].(time.Time); ok {
		spec.OccurrenceOnDate = &t
	}
	return spec
}

func attachmentsValue(attachments []Attachment) any {
	if attachments == nil {
		return nil
	}
	out := make([]any, len(attachments))
	for i, a := range attachments {
		out[i] = map[string]any{
			"title":         a.Title,
			"content":       a.Content,
			"author":        stringList(a.Author),
			"num_pages":     int64(a.NumPages),
			"last_modified": nullableTime(a.LastModified),
			"created_on":    nullableTime(a.CreatedOn),
			"is_starred":    a.IsStarred,
			"folder":        nullableString(a.Folder),
		}
	}
	return out
}

func attachmentsFromValue(v any) []Attachment {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Attachment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Attachment{
			Title:        asString(m["title"]),
			Content:      asString(m["content"]),
			Author:       asStrings(m["author"]),
			NumPages:     asInt(m["num_pages"]),
			LastModified: asTime(m["last_modified"]),
			CreatedOn:    asTime(m["created_on"]),
			IsStarred:    asBool(m["is_starred"]),
			Folder:       asString(m["folder"]),
		})
	}
	return out
}

func (e Event) row() store.Row {
	return store.Row{
		"attendees":           stringList(e.Attendees),
		"attendees_to_avoid":  stringList(e.AttendeesToAvoid),
		"optional_attendees":  stringList(e.OptionalAttendees),
		"declined_by":         stringList(e.DeclinedBy),
		"tentative_attendees": stringList(e.TentativeAttendees),
		"subject":             nullableString(e.Subject),
		"location":            nullableString(e.Location),
		"starts_at":           nullableTime(e.StartsAt),
		"ends_at":             nullableTime(e.EndsAt),
		"show_as_status":      nullableString(e.ShowAsStatus),
		"event_importance":    nullableString(e.Importance),
		"repeats":             repeatsValue(e.Repeats),
		"notes":               nullableString(e.Notes),
		"video_link":          nullableString(e.VideoLink),
		"attachments":         attachmentsValue(e.Attachments),
		"event_id":            e.EventID,
		"recurrent_event_id":  nullableString(e.RecurrentEventID),
		"original_starts_at":  nullableTime(e.OriginalStartsAt),
	}
}

func eventFromRow(row store.Row) Event {
	return Event{
		EventID:            asString(row["event_id"]),
		Subject:            asString(row["subject"]),
		Location:           asString(row["location"]),
		Notes:              asString(row["notes"]),
		VideoLink:          asString(row["video_link"]),
		Attendees:          asStrings(row["attendees"]),
		AttendeesToAvoid:   asStrings(row["attendees_to_avoid"]),
		OptionalAttendees:  asStrings(row["optional_attendees"]),
		DeclinedBy:         asStrings(row["declined_by"]),
		TentativeAttendees: asStrings(row["tentative_attendees"]),
		StartsAt:           asTime(row["starts_at"]),
		EndsAt:             asTime(row["ends_at"]),
		ShowAsStatus:       asString(row["show_as_status"]),
		Importance:         asString(row["event_importance"]),
		Repeats:            repeatsFromValue(row["repeats"]),
		Attachments:        attachmentsFromValue(row["attachments"]),
		RecurrentEventID:   asString(row["recurrent_event_id"]),
		OriginalStartsAt:   asTime(row["original_starts_at"]),
	}
}

func roomFromRow(row store.Row) ConferenceRoom {
	return ConferenceRoom{
		RoomID:   asString(row["room_id"]),
		RoomName: asString(row["room_name"]),
		Capacity: asInt(row["capacity"]),
	}
}

func (r ConferenceRoom) row() store.Row {
	return store.Row{
		"room_id":   r.RoomID,
		"room_name": r.RoomName,
		"capacity":  int64(r.Capacity),
	}
}

func vacationFromRow(row store.Row) Vacation {
	return Vacation{
		EmployeeID: asString(row["employee_id"]),
		Starts:     asTime(row["starts"]),
		Ends:       asTime(row["ends"]),
	}
}
