package domain

import "time"

// Project is the central entity of the back office. ProjectCode and
// ProjectName are generated, never supplied by callers; the code is
// regenerated whenever itemId, organisationId or locationId changes.
type Project struct {
	ID                     int64      `json:"id"`
	TeamName               string     `json:"teamName"`
	OrganisationID         *int64     `json:"organisationId"`
	ItemID                 int64      `json:"itemId"`
	LocationID             *int64     `json:"locationId"`
	ProjectCode            string     `json:"projectCode"`
	ProjectName            string     `json:"projectName"`
	PoNo                   *string    `json:"poNo"`
	PoDocument             *string    `json:"poDocument"`
	PoDate                 *time.Time `json:"poDate"`
	SapPoNo                *string    `json:"sapPoNo"`
	SapPoDate              *time.Time `json:"sapPoDate"`
	PerformanceCertificate *string    `json:"performanceCertificate"`
	PerformanceDate        *time.Time `json:"performanceDate"`
	CompletionDocument     *string    `json:"completionDocument"`
	CompletionDate         *time.Time `json:"completionDate"`
	TenderID               *int64     `json:"tenderId"`
	EnquiryID              *int64     `json:"enquiryId"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// CreateProjectInput carries the pre-validated fields for a new project.
type CreateProjectInput struct {
	TeamName               string
	OrganisationID         *int64
	ItemID                 int64
	LocationID             *int64
	PoNo                   *string
	PoDocument             *string
	PoDate                 *time.Time
	SapPoNo                *string
	SapPoDate              *time.Time
	PerformanceCertificate *string
	PerformanceDate        *time.Time
	CompletionDocument     *string
	CompletionDate         *time.Time
	TenderID               *int64
	EnquiryID              *int64
}

// UpdateProjectInput is a partial update. Plain pointers mean
// overwrite-if-supplied. The Optional fields additionally distinguish
// "absent" from "explicitly null": an explicit null clears the reference
// and still triggers code regeneration.
type UpdateProjectInput struct {
	TeamName               *string
	OrganisationID         Optional[int64]
	ItemID                 *int64
	LocationID             Optional[int64]
	PoNo                   *string
	PoDocument             *string
	PoDate                 *time.Time
	SapPoNo                *string
	SapPoDate              *time.Time
	PerformanceCertificate *string
	PerformanceDate        *time.Time
	CompletionDocument     *string
	CompletionDate         *time.Time
	TenderID               Optional[int64]
	EnquiryID              Optional[int64]
}

// ListFilters narrows the project list. Zero values mean "no filter".
type ListFilters struct {
	Page           int
	Limit          int
	Search         string
	TeamName       string
	OrganisationID *int64
	ItemID         *int64
	LocationID     *int64
	FromDate       *time.Time
	ToDate         *time.Time
}

type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type ListResult struct {
	Data []Project `json:"data"`
	Meta ListMeta  `json:"meta"`
}
