package models

import "time"

// Bookings and service offerings are read back as bson.M, exactly as stored.

type InsertOutcome struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

type UpdateOutcome struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

type DeleteOutcome struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Booking lifecycle actions published on the event channel.
const (
	BookingCreated = "created"
	BookingUpdated = "updated"
	BookingDeleted = "deleted"
)

type BookingEvent struct {
	Action    string    `json:"action"`
	BookingID string    `json:"bookingId"`
	Email     string    `json:"email,omitempty"`
	Fields    []string  `json:"fields,omitempty"`
	At        time.Time `json:"at"`
}
