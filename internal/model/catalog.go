package model

// Parks managed by the organisation.
var Parks = []string{"Yellowstone", "Yosemite", "Grand Canyon", "Zion", "Acadia", "Rocky Mountain"}

// Fund request categories and urgencies.
var (
	FundCategories = []string{
		"Maintenance", "Conservation", "Infrastructure", "Safety",
		"Education", "Research", "Visitor Services", "Other",
	}
	FundUrgencies = []string{"low", "medium", "high"}
)

// Emergency request types and timeframes.
var (
	EmergencyTypes = []string{
		"Natural Disaster", "Infrastructure Failure", "Wildlife Crisis",
		"Safety Hazard", "Resource Depletion", "Other",
	}
	EmergencyTimeframes = []string{"immediate", "urgent", "high", "standard"}
)

// Extra-funds categories and expected durations.
var (
	ExtraFundsCategories = []string{
		"Infrastructure", "Conservation", "Education", "Research",
		"Visitor Services", "Staffing", "Maintenance", "Other",
	}
	ExtraFundsDurations = []string{"One-time", "Quarter", "Half-year", "Annual", "Multi-year"}
)

// Donation types accepted by the public donation form.
var DonationTypes = []string{"one-time", "monthly", "annual"}

// CategoriesFor returns the category list that applies to kind.
func CategoriesFor(kind string) []string {
	switch kind {
	case KindEmergency:
		return EmergencyTypes
	case KindExtraFunds:
		return ExtraFundsCategories
	default:
		return FundCategories
	}
}

// PrioritiesFor returns the priority list that applies to kind.
func PrioritiesFor(kind string) []string {
	switch kind {
	case KindEmergency:
		return EmergencyTimeframes
	case KindExtraFunds:
		return ExtraFundsDurations
	default:
		return FundUrgencies
	}
}

// Contains reports whether v is in list.
func Contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Tour pricing and party size.
const (
	TourPricePerGuest = 75
	MaxTourGuests     = 20
)

// Service-provider company types and the services they may offer.
var (
	CompanyTypes     = []string{"LLC", "Corporation", "Sole Proprietorship"}
	ProvidedServices = []string{
		"Receptionist", "Tour Guiders", "Accountants",
		"Waiter/Waitress", "Housekeeper", "Boat Tour Guiders",
	}
)
