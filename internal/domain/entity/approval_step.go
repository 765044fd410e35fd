package entity

// ApprovalStep is one position in a proposal's approval line
type ApprovalStep struct {
	Order       int    `json:"order"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Conditional bool   `json:"conditional"`
	Final       bool   `json:"final"`
}
