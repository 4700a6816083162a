package dto

// InboundMessageRequest mirrors the messaging channel webhook payload. The
// channel posts form-encoded fields with capitalized names.
type InboundMessageRequest struct {
	Body string `json:"Body" form:"Body"`
	From string `json:"From" form:"From"`
	To   string `json:"To" form:"To"`
}
