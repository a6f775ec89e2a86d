// Package crm holds the enumerations shared by the server and the browser board.
package crm

type PropertyInterest string

const (
	InterestLot   PropertyInterest = "LOT"
	InterestCondo PropertyInterest = "CONDO"
	InterestHouse PropertyInterest = "HOUSE"
)

type LeadSource string

const (
	SourceSocialMedia LeadSource = "SOCIAL_MEDIA"
	SourceInternet    LeadSource = "INTERNET"
	SourceReferral    LeadSource = "REFERRAL"
	SourceWalkIn      LeadSource = "WALK_IN"
)

type TransactionType string

const (
	TransactionBuying  TransactionType = "BUYING"
	TransactionSelling TransactionType = "SELLING"
)

// LeadStatus is the pipeline stage of a lead. Any status may follow any other.
type LeadStatus string

const (
	StatusNew            LeadStatus = "NEW"
	StatusContacted      LeadStatus = "CONTACTED"
	StatusScheduledVisit LeadStatus = "SCHEDULED_VISIT"
	StatusClosed         LeadStatus = "CLOSED"
	StatusDropped        LeadStatus = "DROPPED"
)

var (
	PropertyInterests = []PropertyInterest{InterestLot, InterestCondo, InterestHouse}
	LeadSources       = []LeadSource{SourceSocialMedia, SourceInternet, SourceReferral, SourceWalkIn}
	TransactionTypes  = []TransactionType{TransactionBuying, TransactionSelling}
	// Statuses is in pipeline order.
	Statuses = []LeadStatus{StatusNew, StatusContacted, StatusScheduledVisit, StatusClosed, StatusDropped}
)

func (p PropertyInterest) Valid() bool { return contains(PropertyInterests, p) }
func (s LeadSource) Valid() bool       { return contains(LeadSources, s) }
func (t TransactionType) Valid() bool  { return contains(TransactionTypes, t) }
func (s LeadStatus) Valid() bool       { return contains(Statuses, s) }

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// StatusStrings returns the status values as plain strings, for select inputs.
func StatusStrings() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}
