package domain

// Duration is the length of a package itinerary.
type Duration struct {
	Days   int
	Nights int
}

// ItineraryDay describes a single day of a package itinerary.
type ItineraryDay struct {
	Day         int
	Title       string
	Description string
}

// Package is a purchasable multi-day travel itinerary.
type Package struct {
	ID          PackageID
	Title       string
	Destination string
	Duration    Duration

	// Price is per traveler, in whole currency units.
	Price int

	Images     []string
	Inclusions []string
	Exclusions []string
	Highlights []string
	Itinerary  []ItineraryDay

	Category    string
	TravelStyle string
	Rating      float64

	MaxGroupSize int
	// GroupsAvailable is denormalized from the groups referencing this package.
	GroupsAvailable int
}

// ClonePackage returns a deep copy of p.
func ClonePackage(p Package) Package {
	out := p
	out.Images = cloneStrings(p.Images)
	out.Inclusions = cloneStrings(p.Inclusions)
	out.Exclusions = cloneStrings(p.Exclusions)
	out.Highlights = cloneStrings(p.Highlights)
	if p.Itinerary != nil {
		out.Itinerary = append([]ItineraryDay(nil), p.Itinerary...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
