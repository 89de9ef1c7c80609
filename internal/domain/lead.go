package domain

// Lead is a captured contact-form submission. The local acknowledgment is the
// only contract the UI depends on; persistence and provider forwarding are
// best-effort.
type Lead struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	PropertyID string `json:"propertyId,omitempty"`
	Type       string `json:"type,omitempty"` // buyer|seller
}
