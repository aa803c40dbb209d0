package domain

// PackageID identifies a travel package. Identifiers are positive and assigned by the store.
type PackageID int

// GroupID identifies a traveler group.
type GroupID int

// BookingID identifies a booking.
type BookingID int
