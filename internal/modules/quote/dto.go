package quote

// ListFilters narrows staff listings; empty strings mean no filter.
// Non-staff callers always get their own quotes regardless of filters.
type ListFilters struct {
	Status     string
	LeadStatus string
}

type AssignRequest struct {
	AssignedTo int64  `json:"assignedTo" binding:"required"`
	Note       string `json:"note"`
}

type LeadStatusRequest struct {
	LeadStatus string `json:"leadStatus" binding:"required"`
	Note       string `json:"note"`
}
