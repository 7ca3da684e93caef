// Package schema declares the namespaces and column schemas of the sandbox
// database. Schemas are fixed at definition time: every table the store
// creates is described here, column for column, using arrow datatypes so
// that nested columns (lists, structs) and date/datetime columns carry
// their semantic type alongside the data.
package schema

import (
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
)

// Namespace identifies one table in the sandbox database.
type Namespace string

const (
	UserCalendar           Namespace = "user_calendar"
	SharedCalendars        Namespace = "shared_calendars"
	Employees              Namespace = "employees"
	EmployeeVacations      Namespace = "employee_vacations"
	ConferenceRooms        Namespace = "conference_rooms"
	ConferenceRoomBookings Namespace = "conference_room_bookings"
	// Sandbox is the internal bookkeeping table. It is delete-protected.
	Sandbox      Namespace = "sandbox"
	UserMetadata Namespace = "user_metadata"
)

// CounterColumn is the only column that is non-null on a headguard row.
// It exists solely on the Sandbox namespace, where the headguard carries 0.
const CounterColumn = "sandbox_message_index"

// All returns every namespace, in declaration order.
func All() []Namespace {
	return []Namespace{
		Sandbox,
		UserCalendar,
		SharedCalendars,
		Employees,
		EmployeeVacations,
		ConferenceRooms,
		ConferenceRoomBookings,
		UserMetadata,
	}
}

const enumMetadataKey = "enum"

// EnumField builds a string column restricted to a fixed set of variants.
// Arrow has no closed-enum datatype, so the variants ride on field metadata
// and are enforced by store validation.
func EnumField(name string, variants ...string) arrow.Field {
	return arrow.Field{
		Name:     name,
		Type:     arrow.BinaryTypes.String,
		Nullable: true,
		Metadata: arrow.NewMetadata([]string{enumMetadataKey}, []string{strings.Join(variants, ",")}),
	}
}

// EnumVariants returns the variants of an enum column, or nil for ordinary
// columns.
func EnumVariants(f arrow.Field) []string {
	idx := f.Metadata.FindKey(enumMetadataKey)
	if idx < 0 {
		return nil
	}
	return strings.Split(f.Metadata.Values()[idx], ",")
}

func field(name string, dt arrow.DataType) arrow.Field {
	return arrow.Field{Name: name, Type: dt, Nullable: true}
}

// Team variants stored on employee rows.
var TeamVariants = []string{"sales_marketing", "engineering", "finance", "leadership", "assistants"}

// ShowAsVariants are the busy-status variants stored on calendar events.
var ShowAsVariants = []string{"busy", "free", "out_of_office", "tentative"}

// FrequencyVariants are the recurrence frequencies stored on the repeats
// struct column.
var FrequencyVariants = []string{"daily", "weekly", "monthly", "yearly"}

// ImportanceVariants are the event importance variants.
var ImportanceVariants = []string{"normal", "high"}

func repeatsType() arrow.DataType {
	return arrow.StructOf(
		EnumField("frequency", FrequencyVariants...),
		field("period", arrow.PrimitiveTypes.Int32),
		field("recurs_until", arrow.FixedWidthTypes.Timestamp_us),
		field("max_repetitions", arrow.PrimitiveTypes.Int32),
		field("which_weekday", arrow.ListOf(arrow.PrimitiveTypes.Int32)),
		field("which_month_day", arrow.ListOf(arrow.PrimitiveTypes.Int32)),
		field("which_year_month", arrow.ListOf(arrow.PrimitiveTypes.Int32)),
		field("bysetpos", arrow.ListOf(arrow.PrimitiveTypes.Int32)),
		field("exclude_occurrence", arrow.ListOf(arrow.FixedWidthTypes.Timestamp_us)),
		field("occurrence_on_date", arrow.FixedWidthTypes.Timestamp_us),
	)
}

func attachmentsType() arrow.DataType {
	return arrow.ListOf(arrow.StructOf(
		field("title", arrow.BinaryTypes.String),
		field("content", arrow.BinaryTypes.String),
		field("author", arrow.ListOf(arrow.BinaryTypes.String)),
		field("num_pages", arrow.PrimitiveTypes.Int32),
		field("last_modified", arrow.FixedWidthTypes.Timestamp_us),
		field("created_on", arrow.FixedWidthTypes.Timestamp_us),
		field("is_starred", arrow.FixedWidthTypes.Boolean),
		field("folder", arrow.BinaryTypes.String),
	))
}

func calendarColumns() []arrow.Field {
	return []arrow.Field{
		field("attendees", arrow.ListOf(arrow.BinaryTypes.String)),
		field("attendees_to_avoid", arrow.ListOf(arrow.BinaryTypes.String)),
		field("optional_attendees", arrow.ListOf(arrow.BinaryTypes.String)),
		field("declined_by", arrow.ListOf(arrow.BinaryTypes.String)),
		field("tentative_attendees", arrow.ListOf(arrow.BinaryTypes.String)),
		field("subject", arrow.BinaryTypes.String),
		field("location", arrow.BinaryTypes.String),
		field("starts_at", arrow.FixedWidthTypes.Timestamp_us),
		field("ends_at", arrow.FixedWidthTypes.Timestamp_us),
		EnumField("show_as_status", ShowAsVariants...),
		EnumField("event_importance", ImportanceVariants...),
		field("repeats", repeatsType()),
		field("notes", arrow.BinaryTypes.String),
		field("video_link", arrow.BinaryTypes.String),
		field("attachments", attachmentsType()),
		field("event_id", arrow.BinaryTypes.String),
		field("recurrent_event_id", arrow.BinaryTypes.String),
		field("original_starts_at", arrow.FixedWidthTypes.Timestamp_us),
	}
}

// Columns returns the ordered column schema for a namespace. Unknown
// namespaces return nil.
func Columns(ns Namespace) []arrow.Field {
	switch ns {
	case Sandbox:
		return []arrow.Field{field(CounterColumn, arrow.PrimitiveTypes.Int32)}
	case UserCalendar:
		return calendarColumns()
	case SharedCalendars:
		return append(calendarColumns(), field("calendar_id", arrow.BinaryTypes.String))
	case Employees:
		return []arrow.Field{
			field("employee_id", arrow.BinaryTypes.String),
			field("name", arrow.BinaryTypes.String),
			field("email_address", arrow.BinaryTypes.String),
			field("mobile", arrow.BinaryTypes.String),
			EnumField("team", TeamVariants...),
			field("role", arrow.BinaryTypes.String),
			field("video_conference_link", arrow.BinaryTypes.String),
			field("joined_date", arrow.FixedWidthTypes.Date32),
			field("birth_date", arrow.FixedWidthTypes.Date32),
			field("manager", arrow.BinaryTypes.String),
			field("assistant", arrow.BinaryTypes.String),
			field("reports", arrow.ListOf(arrow.BinaryTypes.String)),
			field("is_user", arrow.FixedWidthTypes.Boolean),
		}
	case EmployeeVacations:
		return []arrow.Field{
			field("employee_id", arrow.BinaryTypes.String),
			field("starts", arrow.FixedWidthTypes.Timestamp_us),
			field("ends", arrow.FixedWidthTypes.Timestamp_us),
		}
	case ConferenceRooms:
		return []arrow.Field{
			field("room_id", arrow.BinaryTypes.String),
			field("capacity", arrow.PrimitiveTypes.Int32),
			field("room_name", arrow.BinaryTypes.String),
		}
	case ConferenceRoomBookings:
		return []arrow.Field{
			field("room_id", arrow.BinaryTypes.String),
			field("booking_id", arrow.BinaryTypes.String),
			field("start", arrow.FixedWidthTypes.Timestamp_us),
			field("end", arrow.FixedWidthTypes.Timestamp_us),
		}
	case UserMetadata:
		return []arrow.Field{
			field("calendar_visible_to", arrow.ListOf(arrow.BinaryTypes.String)),
		}
	}
	return nil
}
