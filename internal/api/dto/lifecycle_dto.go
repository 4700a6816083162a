package dto

// StatusChangeRequest is posted by ticket-management code on a transition.
type StatusChangeRequest struct {
	TicketID      string `json:"ticket_id"`
	Title         string `json:"title"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	Priority      string `json:"priority"`
	AssigneeName  string `json:"assignee_name"`
	ETA           string `json:"eta"`
}

// AssignmentRequest is posted by the assignment workflow.
type AssignmentRequest struct {
	TicketID      string `json:"ticket_id"`
	Title         string `json:"title"`
	CustomerName  string `json:"customer_name"`
	AssigneeName  string `json:"assignee_name"`
	AssigneePhone string `json:"assignee_phone"`
	Priority      string `json:"priority"`
	ETA           string `json:"eta"`
}
