package board

import (
	"time"

	"github.com/kidandcat/crm/internal/crm"
)

// The board is compiled to WebAssembly, so it keeps its own copies of the
// JSON models instead of importing the database layer.

type Lead struct {
	ID               string               `json:"id"`
	FirstName        string               `json:"firstName"`
	LastName         string               `json:"lastName"`
	Email            string               `json:"email"`
	Phone            string               `json:"phone"`
	PropertyInterest crm.PropertyInterest `json:"propertyInterest"`
	Source           crm.LeadSource       `json:"source"`
	Transaction      crm.TransactionType  `json:"transaction"`
	Status           crm.LeadStatus       `json:"status"`
	CreatedAt        time.Time            `json:"createdAt"`
	Notes            []Note               `json:"notes"`
	Appointments     []Appointment        `json:"appointments"`
}

func (l Lead) SearchFields() []string { return []string{l.FirstName, l.LastName, l.Email} }
func (l Lead) PipelineStatus() string { return string(l.Status) }

type Note struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Appointment struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type LeadForm struct {
	FirstName        string               `json:"firstName"`
	LastName         string               `json:"lastName"`
	Email            string               `json:"email"`
	Phone            string               `json:"phone"`
	PropertyInterest crm.PropertyInterest `json:"propertyInterest"`
	Source           crm.LeadSource       `json:"source"`
	Transaction      crm.TransactionType  `json:"transaction"`
	Note             string               `json:"note"`
}

type ScheduleForm struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

func defaultSchedule(now time.Time) ScheduleForm {
	return ScheduleForm{
		Title:    "Property Viewing",
		Date:     now.Format("2006-01-02"),
		Time:     "10:00",
		Duration: "60",
	}
}

// Result mirrors the envelope every API response carries.
type Result[T any] struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Data    T                   `json:"data"`
}
