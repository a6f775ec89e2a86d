package store

import (
	"time"

	"github.com/kidandcat/crm/internal/crm"
)

type Lead struct {
	ID               string               `db:"id" json:"id"`
	FirstName        string               `db:"first_name" json:"firstName"`
	LastName         string               `db:"last_name" json:"lastName"`
	Email            string               `db:"email" json:"email"`
	Phone            string               `db:"phone" json:"phone"`
	PropertyInterest crm.PropertyInterest `db:"property_interest" json:"propertyInterest"`
	Source           crm.LeadSource       `db:"source" json:"source"`
	Transaction      crm.TransactionType  `db:"transaction_type" json:"transaction"`
	Status           crm.LeadStatus       `db:"status" json:"status"`
	CreatedAt        time.Time            `db:"created_at" json:"createdAt"`

	Notes        []Note        `db:"-" json:"notes"`
	Appointments []Appointment `db:"-" json:"appointments"`
}

func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

// SearchFields are the fields the leads table search looks at.
func (l Lead) SearchFields() []string {
	return []string{l.FirstName, l.LastName, l.Email}
}

func (l Lead) PipelineStatus() string {
	return string(l.Status)
}

type Note struct {
	ID        string    `db:"id" json:"id"`
	LeadID    string    `db:"lead_id" json:"leadId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Appointment struct {
	ID        string    `db:"id" json:"id"`
	LeadID    string    `db:"lead_id" json:"leadId"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"startTime"`
	EndTime   time.Time `db:"end_time" json:"endTime"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
