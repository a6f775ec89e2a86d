package store

const (
	leadColumns = `id, first_name, last_name, email, phone, property_interest, source, transaction_type, status, created_at`

	selectLeads    = `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC, id`
	selectLeadByID = `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`
	insertLead     = `INSERT INTO leads (` + leadColumns + `)
		VALUES (:id, :first_name, :last_name, :email, :phone, :property_interest, :source, :transaction_type, :status, :created_at)`
	updateLeadStatus = `UPDATE leads SET status = ? WHERE id = ?`

	selectNotes       = `SELECT id, lead_id, content, created_at FROM notes ORDER BY created_at DESC, id`
	selectNotesByLead = `SELECT id, lead_id, content, created_at FROM notes WHERE lead_id = ? ORDER BY created_at DESC, id`
	insertNote        = `INSERT INTO notes (id, lead_id, content, created_at) VALUES (:id, :lead_id, :content, :created_at)`

	appointmentColumns       = `id, lead_id, title, start_time, end_time, created_at`
	selectAppointments       = `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY start_time, id`
	selectAppointmentsByLead = `SELECT ` + appointmentColumns + ` FROM appointments WHERE lead_id = ? ORDER BY start_time, id`
	insertAppointment        = `INSERT INTO appointments (` + appointmentColumns + `)
		VALUES (:id, :lead_id, :title, :start_time, :end_time, :created_at)`
	deleteAppointmentsByLead = `DELETE FROM appointments WHERE lead_id = ?`

	countLeads = `SELECT COUNT(*) FROM leads`
)
