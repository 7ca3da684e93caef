package apps

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/worldbox/worldbox/internal/query"
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

// SearchConferenceRoom returns rooms holding at least minCapacity people,
// sorted by name.
func SearchConferenceRoom(minCapacity int) ([]ConferenceRoom, error) {
	matched, err := query.Apply(currentRows(schema.ConferenceRooms), []query.Criterion{
		{Column: "capacity", Value: minCapacity, Filter: query.GtEq},
	})
	if err != nil {
		return nil, err
	}
	rooms := make([]ConferenceRoom, 0, len(matched))
	for _, row := range matched {
		rooms = append(rooms, roomFromRow(row))
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomName < rooms[j].RoomName })
	return rooms, nil
}

// GetConferenceRoom returns the room with the given identifier.
func GetConferenceRoom(roomID string) (ConferenceRoom, error) {
	matched, err := query.Apply(currentRows(schema.ConferenceRooms), []query.Criterion{
		{Column: "room_id", Value: roomID, Filter: query.ExactMatch},
	})
	if err != nil {
		return ConferenceRoom{}, err
	}
	if len(matched) == 0 {
		return ConferenceRoom{}, &store.NotFoundError{
			Namespace: schema.ConferenceRooms,
			Detail:    fmt.Sprintf("no conference room with id %q", roomID),
		}
	}
	return roomFromRow(matched[0]), nil
}

// FindAvailableTimeSlots returns the free intervals of a room within the
// window, earliest first. Bookings touching the window edge do not block
// it.
func FindAvailableTimeSlots(roomID string, window TimeInterval) ([]TimeInterval, error) {
	if _, err := GetConferenceRoom(roomID); err != nil {
		return nil, err
	}
	bookings := roomBookings(roomID, window)

	var free []TimeInterval
	currentStart := window.Start
	for _, b := range bookings {
		if b.Start.After(currentStart) {
			free = append(free, TimeInterval{Start: currentStart, End: b.Start})
		}
		if b.End.After(currentStart) {
			currentStart = b.End
		}
	}
	if currentStart.Before(window.End) {
		free = append(free, TimeInterval{Start: currentStart, End: window.End})
	}
	return free, nil
}

// BookConferenceRoom reserves a room for the interval and returns the
// booking identifier. Overlapping an existing booking is an error.
func BookConferenceRoom(roomID string, interval TimeInterval) (string, error) {
	if !interval.End.After(interval.Start) {
		return "", &store.ValidationError{
			Namespace: schema.ConferenceRoomBookings,
			Reason:    "booking ends before it starts",
		}
	}
	if _, err := GetConferenceRoom(roomID); err != nil {
		return "", err
	}
	for _, b := range roomBookings(roomID, interval) {
		if b.Overlaps(interval) {
			return "", &store.ValidationError{
				Namespace: schema.ConferenceRoomBookings,
				Reason:    fmt.Sprintf("room %q is already booked %s to %s", roomID, b.Start, b.End),
			}
		}
	}
	bookingID := uuid.NewString()
	err := world.Current().AddToDatabase(schema.ConferenceRoomBookings, []store.Row{{
		"room_id":    roomID,
		"booking_id": bookingID,
		"start":      interval.Start,
		"end":        interval.End,
	}})
	if err != nil {
		return "", err
	}
	return bookingID, nil
}

// SummariseAvailability computes the free intervals of every room that
// holds at least minCapacity people within the window.
func SummariseAvailability(window TimeInterval, minCapacity int) ([]RoomAvailability, error) {
	rooms, err := SearchConferenceRoom(minCapacity)
	if err != nil {
		return nil, err
	}
	out := make([]RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		free, err := FindAvailableTimeSlots(room.RoomID, window)
		if err != nil {
			return nil, err
		}
		out = append(out, RoomAvailability{Room: room, FreeIntervals: free})
	}
	return out, nil
}

// roomBookings returns a room's bookings that intersect the window,
// sorted by start time.
func roomBookings(roomID string, window TimeInterval) []TimeInterval {
	var bookings []TimeInterval
	for _, row := range currentRows(schema.ConferenceRoomBookings) {
		if row["room_id"] != roomID {
			continue
		}
		b := TimeInterval{Start: asTime(row["start"]), End: asTime(row["end"])}
		if b.Overlaps(window) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].Start.Before(bookings[j].Start)
	})
	return bookings
}
