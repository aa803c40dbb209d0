package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/app/patch"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

type durationJSON struct {
	Days   int `json:"days"`
	Nights int `json:"nights"`
}

type itineraryDayJSON struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type packageJSON struct {
	ID              int                `json:"id"`
	Title           string             `json:"title"`
	Destination     string             `json:"destination"`
	Duration        durationJSON       `json:"duration"`
	Price           int                `json:"price"`
	Images          []string           `json:"images"`
	Inclusions      []string           `json:"inclusions"`
	Exclusions      []string           `json:"exclusions"`
	Highlights      []string           `json:"highlights"`
	Itinerary       []itineraryDayJSON `json:"itinerary"`
	Category        string             `json:"category"`
	TravelStyle     string             `json:"travelStyle"`
	Rating          float64            `json:"rating"`
	MaxGroupSize    int                `json:"maxGroupSize"`
	GroupsAvailable int                `json:"groupsAvailable"`
}

type leaderJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type groupJSON struct {
	ID             int                `json:"id"`
	PackageID      int                `json:"packageId"`
	Destination    string             `json:"destination"`
	DepartureDate  openapi_types.Date `json:"departureDate"`
	MaxMembers     int                `json:"maxMembers"`
	CurrentMembers int                `json:"currentMembers"`
	SpotsLeft      int                `json:"spotsLeft"`
	Leader         leaderJSON         `json:"leader"`
	Description    string             `json:"description"`
	Status         string             `json:"status"`
}

type travelerJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Age   int    `json:"age"`
}

type emergencyContactJSON struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

type bookingJSON struct {
	ID               int                    `json:"id"`
	PackageID        int                    `json:"packageId"`
	GroupID          nullable.Nullable[int] `json:"groupId"`
	Travelers        []travelerJSON         `json:"travelers"`
	DepartureDate    openapi_types.Date     `json:"departureDate"`
	SpecialRequests  string                 `json:"specialRequests"`
	EmergencyContact emergencyContactJSON   `json:"emergencyContact"`
	PaymentMethod    string                 `json:"paymentMethod"`
	TotalPrice       int                    `json:"totalPrice"`
	BookingDate      time.Time              `json:"bookingDate"`
	Status           string                 `json:"status"`
	Reference        string                 `json:"reference"`
}

type tripDetailsJSON struct {
	DepartureDate    nullable.Nullable[openapi_types.Date] `json:"departureDate"`
	DepartureFixed   bool                                  `json:"departureFixed"`
	EmergencyContact emergencyContactJSON                  `json:"emergencyContact"`
	SpecialRequests  string                                `json:"specialRequests"`
}

type wizardJSON struct {
	ID            string          `json:"id"`
	Stage         string          `json:"stage"`
	Package       packageJSON     `json:"package"`
	Group         *groupJSON      `json:"group"`
	Travelers     []travelerJSON  `json:"travelers"`
	TripDetails   tripDetailsJSON `json:"tripDetails"`
	PaymentMethod string          `json:"paymentMethod"`
	Total         int             `json:"total"`
	Booking       *bookingJSON    `json:"booking"`
}

// Requests.

type createPackageRequest struct {
	Title        string             `json:"title"`
	Destination  string             `json:"destination"`
	Duration     durationJSON       `json:"duration"`
	Price        int                `json:"price"`
	Images       []string           `json:"images"`
	Inclusions   []string           `json:"inclusions"`
	Exclusions   []string           `json:"exclusions"`
	Highlights   []string           `json:"highlights"`
	Itinerary    []itineraryDayJSON `json:"itinerary"`
	Category     string             `json:"category"`
	TravelStyle  string             `json:"travelStyle"`
	Rating       float64            `json:"rating"`
	MaxGroupSize int                `json:"maxGroupSize"`
}

type updatePackageRequest struct {
	Title        nullable.Nullable[string]             `json:"title,omitempty"`
	Destination  nullable.Nullable[string]             `json:"destination,omitempty"`
	Duration     nullable.Nullable[durationJSON]       `json:"duration,omitempty"`
	Price        nullable.Nullable[int]                `json:"price,omitempty"`
	Images       nullable.Nullable[[]string]           `json:"images,omitempty"`
	Inclusions   nullable.Nullable[[]string]           `json:"inclusions,omitempty"`
	Exclusions   nullable.Nullable[[]string]           `json:"exclusions,omitempty"`
	Highlights   nullable.Nullable[[]string]           `json:"highlights,omitempty"`
	Itinerary    nullable.Nullable[[]itineraryDayJSON] `json:"itinerary,omitempty"`
	Category     nullable.Nullable[string]             `json:"category,omitempty"`
	TravelStyle  nullable.Nullable[string]             `json:"travelStyle,omitempty"`
	Rating       nullable.Nullable[float64]            `json:"rating,omitempty"`
	MaxGroupSize nullable.Nullable[int]                `json:"maxGroupSize,omitempty"`
}

// leaderRequest validates the email shape while decoding.
type leaderRequest struct {
	Name  string              `json:"name"`
	Email openapi_types.Email `json:"email"`
	Phone string              `json:"phone"`
}

type createGroupRequest struct {
	PackageID     int                `json:"packageId"`
	DepartureDate openapi_types.Date `json:"departureDate"`
	MaxMembers    int                `json:"maxMembers"`
	Leader        leaderRequest      `json:"leader"`
	Description   string             `json:"description"`
}

type leaderPatch struct {
	Name  nullable.Nullable[string] `json:"name,omitempty"`
	Email nullable.Nullable[string] `json:"email,omitempty"`
	Phone nullable.Nullable[string] `json:"phone,omitempty"`
}

type updateGroupRequest struct {
	DepartureDate  nullable.Nullable[openapi_types.Date] `json:"departureDate,omitempty"`
	MaxMembers     nullable.Nullable[int]                `json:"maxMembers,omitempty"`
	CurrentMembers nullable.Nullable[int]                `json:"currentMembers,omitempty"`
	Leader         *leaderPatch                          `json:"leader,omitempty"`
	Description    nullable.Nullable[string]             `json:"description,omitempty"`
	Status         nullable.Nullable[string]             `json:"status,omitempty"`
}

type createBookingRequest struct {
	PackageID        int                                   `json:"packageId"`
	GroupID          nullable.Nullable[int]                `json:"groupId,omitempty"`
	Travelers        []travelerJSON                        `json:"travelers"`
	DepartureDate    nullable.Nullable[openapi_types.Date] `json:"departureDate,omitempty"`
	SpecialRequests  string                                `json:"specialRequests"`
	EmergencyContact emergencyContactJSON                  `json:"emergencyContact"`
	PaymentMethod    string                                `json:"paymentMethod"`
	Status           string                                `json:"status"`
}

type updateBookingRequest struct {
	Status          nullable.Nullable[string] `json:"status,omitempty"`
	SpecialRequests nullable.Nullable[string] `json:"specialRequests,omitempty"`
}

type startWizardRequest struct {
	PackageID int                    `json:"packageId"`
	GroupID   nullable.Nullable[int] `json:"groupId,omitempty"`
}

type tripDetailsRequest struct {
	DepartureDate    nullable.Nullable[openapi_types.Date] `json:"departureDate,omitempty"`
	EmergencyContact emergencyContactJSON                  `json:"emergencyContact"`
	SpecialRequests  string                                `json:"specialRequests"`
}

type paymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// Domain to wire.

func packageFromDomain(p domain.Package) packageJSON {
	out := packageJSON{
		ID:              int(p.ID),
		Title:           p.Title,
		Destination:     p.Destination,
		Duration:        durationJSON{Days: p.Duration.Days, Nights: p.Duration.Nights},
		Price:           p.Price,
		Images:          orEmpty(p.Images),
		Inclusions:      orEmpty(p.Inclusions),
		Exclusions:      orEmpty(p.Exclusions),
		Highlights:      orEmpty(p.Highlights),
		Itinerary:       make([]itineraryDayJSON, 0, len(p.Itinerary)),
		Category:        p.Category,
		TravelStyle:     p.TravelStyle,
		Rating:          p.Rating,
		MaxGroupSize:    p.MaxGroupSize,
		GroupsAvailable: p.GroupsAvailable,
	}
	for _, d := range p.Itinerary {
		out.Itinerary = append(out.Itinerary, itineraryDayJSON{Day: d.Day, Title: d.Title, Description: d.Description})
	}
	return out
}

func packagesFromDomain(ps []domain.Package) []packageJSON {
	out := make([]packageJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, packageFromDomain(p))
	}
	return out
}

func groupFromDomain(g domain.Group) groupJSON {
	return groupJSON{
		ID:             int(g.ID),
		PackageID:      int(g.PackageID),
		Destination:    g.Destination,
		DepartureDate:  openapi_types.Date{Time: g.DepartureDate},
		MaxMembers:     g.MaxMembers,
		CurrentMembers: g.CurrentMembers,
		SpotsLeft:      g.SpotsLeft(),
		Leader:         leaderJSON{Name: g.Leader.Name, Email: g.Leader.Email, Phone: g.Leader.Phone},
		Description:    g.Description,
		Status:         string(g.Status),
	}
}

func groupsFromDomain(gs []domain.Group) []groupJSON {
	out := make([]groupJSON, 0, len(gs))
	for _, g := range gs {
		out = append(out, groupFromDomain(g))
	}
	return out
}

func travelersFromDomain(ts []domain.Traveler) []travelerJSON {
	out := make([]travelerJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, travelerJSON{Name: t.Name, Email: t.Email, Phone: t.Phone, Age: t.Age})
	}
	return out
}

func contactFromDomain(c domain.EmergencyContact) emergencyContactJSON {
	return emergencyContactJSON{Name: c.Name, Phone: c.Phone, Relation: c.Relation}
}

func bookingFromDomain(b domain.Booking) bookingJSON {
	out := bookingJSON{
		ID:               int(b.ID),
		PackageID:        int(b.PackageID),
		GroupID:          nullable.NewNullNullable[int](),
		Travelers:        travelersFromDomain(b.Travelers),
		DepartureDate:    openapi_types.Date{Time: b.DepartureDate},
		SpecialRequests:  b.SpecialRequests,
		EmergencyContact: contactFromDomain(b.EmergencyContact),
		PaymentMethod:    string(b.PaymentMethod),
		TotalPrice:       b.TotalPrice,
		BookingDate:      b.BookingDate,
		Status:           string(b.Status),
		Reference:        b.Reference,
	}
	if b.GroupID != nil {
		out.GroupID = nullable.NewNullableWithValue(int(*b.GroupID))
	}
	return out
}

func bookingsFromDomain(bs []domain.Booking) []bookingJSON {
	out := make([]bookingJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingFromDomain(b))
	}
	return out
}

func wizardFromView(v bookings.WizardView) wizardJSON {
	out := wizardJSON{
		ID:        string(v.ID),
		Stage:     v.Stage.String(),
		Package:   packageFromDomain(v.Package),
		Travelers: travelersFromDomain(v.Travelers),
		TripDetails: tripDetailsJSON{
			DepartureDate:    nullableDate(v.TripDetails.DepartureDate),
			DepartureFixed:   v.TripDetails.DepartureFixed,
			EmergencyContact: contactFromDomain(v.TripDetails.EmergencyContact),
			SpecialRequests:  v.TripDetails.SpecialRequests,
		},
		PaymentMethod: string(v.Payment.Method),
		Total:         v.Total,
	}
	if v.Group != nil {
		g := groupFromDomain(*v.Group)
		out.Group = &g
	}
	if v.Booking != nil {
		b := bookingFromDomain(*v.Booking)
		out.Booking = &b
	}
	return out
}

// Wire to domain.

func travelersToDomain(ts []travelerJSON) []domain.Traveler {
	out := make([]domain.Traveler, 0, len(ts))
	for _, t := range ts {
		out = append(out, travelerToDomain(t))
	}
	return out
}

func travelerToDomain(t travelerJSON) domain.Traveler {
	return domain.Traveler{Name: t.Name, Email: t.Email, Phone: t.Phone, Age: t.Age}
}

func contactToDomain(c emergencyContactJSON) domain.EmergencyContact {
	return domain.EmergencyContact{Name: c.Name, Phone: c.Phone, Relation: c.Relation}
}

func itineraryToDomain(ds []itineraryDayJSON) []domain.ItineraryDay {
	if ds == nil {
		return nil
	}
	out := make([]domain.ItineraryDay, 0, len(ds))
	for _, d := range ds {
		out = append(out, domain.ItineraryDay{Day: d.Day, Title: d.Title, Description: d.Description})
	}
	return out
}

func durationToDomain(d durationJSON) domain.Duration {
	return domain.Duration{Days: d.Days, Nights: d.Nights}
}

// optionalFrom carries the tri-state of a PATCH field into the service layer.
func optionalFrom[T any](n nullable.Nullable[T]) patch.Optional[T] {
	return optionalMap(n, func(v T) T { return v })
}

func optionalMap[T, U any](n nullable.Nullable[T], f func(T) U) patch.Optional[U] {
	if !n.IsSpecified() {
		return patch.Unspecified[U]()
	}
	if n.IsNull() {
		return patch.Null[U]()
	}
	v, err := n.Get()
	if err != nil {
		return patch.Null[U]()
	}
	return patch.Some(f(v))
}

func dateValue(n nullable.Nullable[openapi_types.Date]) time.Time {
	if !n.IsSpecified() || n.IsNull() {
		return time.Time{}
	}
	v, err := n.Get()
	if err != nil {
		return time.Time{}
	}
	return v.Time
}

func nullableDate(t time.Time) nullable.Nullable[openapi_types.Date] {
	if t.IsZero() {
		return nullable.NewNullNullable[openapi_types.Date]()
	}
	return nullable.NewNullableWithValue(openapi_types.Date{Time: t})
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
