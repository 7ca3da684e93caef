package apps

import (
	"reflect"

	"github.com/worldbox/worldbox/internal/sandbox"
)

// ImportPath is the package path programs running inside the sandbox use
// to reach the workplace apps.
const ImportPath = "workplace"

func init() {
	sandbox.RegisterExports(ImportPath+"/workplace", map[string]reflect.Value{
		"Now":   reflect.ValueOf(Now),
		"Today": reflect.ValueOf(Today),

		"FindEmployee":        reflect.ValueOf(FindEmployee),
		"GetEmployeeProfile":  reflect.ValueOf(GetEmployeeProfile),
		"GetCurrentUser":      reflect.ValueOf(GetCurrentUser),
		"GetAllEmployees":     reflect.ValueOf(GetAllEmployees),
		"FindTeamOf":          reflect.ValueOf(FindTeamOf),
		"FindReportsOf":       reflect.ValueOf(FindReportsOf),
		"FindManagerOf":       reflect.ValueOf(FindManagerOf),
		"GetAssistant":        reflect.ValueOf(GetAssistant),
		"GetVacationSchedule": reflect.ValueOf(GetVacationSchedule),

		"AddEvent":          reflect.ValueOf(AddEvent),
		"DeleteEvent":       reflect.ValueOf(DeleteEvent),
		"GetEvent":          reflect.ValueOf(GetEvent),
		"GetEventInstances": reflect.ValueOf(GetEventInstances),
		"FindEvents":        reflect.ValueOf(FindEvents),
		"FindPastEvents":    reflect.ValueOf(FindPastEvents),

		"SearchConferenceRoom":   reflect.ValueOf(SearchConferenceRoom),
		"GetConferenceRoom":      reflect.ValueOf(GetConferenceRoom),
		"FindAvailableTimeSlots": reflect.ValueOf(FindAvailableTimeSlots),
		"BookConferenceRoom":     reflect.ValueOf(BookConferenceRoom),
		"SummariseAvailability":  reflect.ValueOf(SummariseAvailability),

		"Employee":         reflect.ValueOf((*Employee)(nil)),
		"Event":            reflect.ValueOf((*Event)(nil)),
		"EventFilter":      reflect.ValueOf((*EventFilter)(nil)),
		"Attachment":       reflect.ValueOf((*Attachment)(nil)),
		"TimeInterval":     reflect.ValueOf((*TimeInterval)(nil)),
		"ConferenceRoom":   reflect.ValueOf((*ConferenceRoom)(nil)),
		"RoomAvailability": reflect.ValueOf((*RoomAvailability)(nil)),
		"Vacation":         reflect.ValueOf((*Vacation)(nil)),
	})
}
