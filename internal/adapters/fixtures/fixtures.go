// Package fixtures embeds the JSON records the in-memory store is seeded with at startup.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

//go:embed data/*.json
var FS embed.FS

// Dataset is the decoded seed data.
type Dataset struct {
	Packages []domain.Package
	Groups   []domain.Group
	Bookings []domain.Booking
}

type packageRecord struct {
	ID          int    `json:"Id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	Duration    struct {
		Days   int `json:"days"`
		Nights int `json:"nights"`
	} `json:"duration"`
	Price      int      `json:"price"`
	Images     []string `json:"images"`
	Inclusions []string `json:"inclusions"`
	Exclusions []string `json:"exclusions"`
	Highlights []string `json:"highlights"`
	Itinerary  []struct {
		Day         int    `json:"day"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"itinerary"`
	Category        string  `json:"category"`
	TravelStyle     string  `json:"travelStyle"`
	Rating          float64 `json:"rating"`
	MaxGroupSize    int     `json:"maxGroupSize"`
	GroupsAvailable int     `json:"groupsAvailable"`
}

type groupRecord struct {
	ID             int                `json:"Id"`
	PackageID      int                `json:"packageId"`
	Destination    string             `json:"destination"`
	DepartureDate  openapi_types.Date `json:"departureDate"`
	MaxMembers     int                `json:"maxMembers"`
	CurrentMembers int                `json:"currentMembers"`
	Leader         struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"leader"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type bookingRecord struct {
	ID        int  `json:"Id"`
	PackageID int  `json:"packageId"`
	GroupID   *int `json:"groupId"`
	Travelers []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		Age   int    `json:"age"`
	} `json:"travelers"`
	DepartureDate    openapi_types.Date `json:"departureDate"`
	SpecialRequests  string             `json:"specialRequests"`
	EmergencyContact struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Relation string `json:"relation"`
	} `json:"emergencyContact"`
	PaymentMethod string    `json:"paymentMethod"`
	TotalPrice    int       `json:"totalPrice"`
	BookingDate   time.Time `json:"bookingDate"`
	Status        string    `json:"status"`
	Reference     string    `json:"reference"`
}

// Load decodes the embedded seed files.
func Load() (Dataset, error) {
	var ds Dataset

	var pkgs []packageRecord
	if err := decode("data/packages.json", &pkgs); err != nil {
		return Dataset{}, err
	}
	for _, r := range pkgs {
		ds.Packages = append(ds.Packages, r.toDomain())
	}

	var groups []groupRecord
	if err := decode("data/groups.json", &groups); err != nil {
		return Dataset{}, err
	}
	for _, r := range groups {
		ds.Groups = append(ds.Groups, r.toDomain())
	}

	var bookings []bookingRecord
	if err := decode("data/bookings.json", &bookings); err != nil {
		return Dataset{}, err
	}
	for _, r := range bookings {
		ds.Bookings = append(ds.Bookings, r.toDomain())
	}

	return ds, nil
}

func decode(name string, dst any) error {
	b, err := FS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (r packageRecord) toDomain() domain.Package {
	p := domain.Package{
		ID:              domain.PackageID(r.ID),
		Title:           r.Title,
		Destination:     r.Destination,
		Duration:        domain.Duration{Days: r.Duration.Days, Nights: r.Duration.Nights},
		Price:           r.Price,
		Images:          r.Images,
		Inclusions:      r.Inclusions,
		Exclusions:      r.Exclusions,
		Highlights:      r.Highlights,
		Category:        r.Category,
		TravelStyle:     r.TravelStyle,
		Rating:          r.Rating,
		MaxGroupSize:    r.MaxGroupSize,
		GroupsAvailable: r.GroupsAvailable,
	}
	for _, d := range r.Itinerary {
		p.Itinerary = append(p.Itinerary, domain.ItineraryDay{Day: d.Day, Title: d.Title, Description: d.Description})
	}
	return p
}

func (r groupRecord) toDomain() domain.Group {
	return domain.Group{
		ID:             domain.GroupID(r.ID),
		PackageID:      domain.PackageID(r.PackageID),
		Destination:    r.Destination,
		DepartureDate:  r.DepartureDate.Time.UTC(),
		MaxMembers:     r.MaxMembers,
		CurrentMembers: r.CurrentMembers,
		Leader:         domain.Leader{Name: r.Leader.Name, Email: r.Leader.Email, Phone: r.Leader.Phone},
		Description:    r.Description,
		Status:         domain.GroupStatus(r.Status),
	}
}

func (r bookingRecord) toDomain() domain.Booking {
	b := domain.Booking{
		ID:              domain.BookingID(r.ID),
		PackageID:       domain.PackageID(r.PackageID),
		DepartureDate:   r.DepartureDate.Time.UTC(),
		SpecialRequests: r.SpecialRequests,
		EmergencyContact: domain.EmergencyContact{
			Name:     r.EmergencyContact.Name,
			Phone:    r.EmergencyContact.Phone,
			Relation: r.EmergencyContact.Relation,
		},
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		TotalPrice:    r.TotalPrice,
		BookingDate:   r.BookingDate.UTC(),
		Status:        domain.BookingStatus(r.Status),
		Reference:     r.Reference,
	}
	if r.GroupID != nil {
		gid := domain.GroupID(*r.GroupID)
		b.GroupID = &gid
	}
	for _, t := range r.Travelers {
		b.Travelers = append(b.Travelers, domain.Traveler{Name: t.Name, Email: t.Email, Phone: t.Phone, Age: t.Age})
	}
	return b
}
