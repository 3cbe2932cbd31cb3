package http

import (
	"fmt"
	"time"

	"github.com/tenderops/procurement-backend/internal/projects/domain"
)

type createProjectReq struct {
	TeamName               string                 `json:"teamName" binding:"required"`
	OrganisationID         *int64                 `json:"organisationId"`
	ItemID                 int64                  `json:"itemId" binding:"required"`
	LocationID             *int64                 `json:"locationId"`
	PoNo                   *string                `json:"poNo"`
	PoDocument             *string                `json:"poDocument"`
	PoDate                 *string                `json:"poDate"`
	SapPoNo                *string                `json:"sapPoNo"`
	SapPoDate              *string                `json:"sapPoDate"`
	PerformanceCertificate *string                `json:"performanceCertificate"`
	PerformanceDate        *string                `json:"performanceDate"`
	CompletionDocument     *string                `json:"completionDocument"`
	CompletionDate         *string                `json:"completionDate"`
	TenderID               *int64                 `json:"tenderId"`
	EnquiryID              *int64                 `json:"enquiryId"`
}

func (r createProjectReq) toInput() (domain.CreateProjectInput, error) {
	in := domain.CreateProjectInput{
		TeamName:               r.TeamName,
		OrganisationID:         r.OrganisationID,
		ItemID:                 r.ItemID,
		LocationID:             r.LocationID,
		PoNo:                   r.PoNo,
		PoDocument:             r.PoDocument,
		SapPoNo:                r.SapPoNo,
		PerformanceCertificate: r.PerformanceCertificate,
		CompletionDocument:     r.CompletionDocument,
		TenderID:               r.TenderID,
		EnquiryID:              r.EnquiryID,
	}

	var err error
	if in.PoDate, err = parseDatePtr(r.PoDate); err != nil {
		return in, fmt.Errorf("poDate: %w", err)
	}
	if in.SapPoDate, err = parseDatePtr(r.SapPoDate); err != nil {
		return in, fmt.Errorf("sapPoDate: %w", err)
	}
	if in.PerformanceDate, err = parseDatePtr(r.PerformanceDate); err != nil {
		return in, fmt.Errorf("performanceDate: %w", err)
	}
	if in.CompletionDate, err = parseDatePtr(r.CompletionDate); err != nil {
		return in, fmt.Errorf("completionDate: %w", err)
	}
	return in, nil
}

type updateProjectReq struct {
	TeamName               *string                `json:"teamName"`
	OrganisationID         domain.Optional[int64] `json:"organisationId"`
	ItemID                 *int64                 `json:"itemId"`
	LocationID             domain.Optional[int64] `json:"locationId"`
	PoNo                   *string                `json:"poNo"`
	PoDocument             *string                `json:"poDocument"`
	PoDate                 *string                `json:"poDate"`
	SapPoNo                *string                `json:"sapPoNo"`
	SapPoDate              *string                `json:"sapPoDate"`
	PerformanceCertificate *string                `json:"performanceCertificate"`
	PerformanceDate        *string                `json:"performanceDate"`
	CompletionDocument     *string                `json:"completionDocument"`
	CompletionDate         *string                `json:"completionDate"`
	TenderID               domain.Optional[int64] `json:"tenderId"`
	EnquiryID              domain.Optional[int64] `json:"enquiryId"`
}

func (r updateProjectReq) toInput() (domain.UpdateProjectInput, error) {
	in := domain.UpdateProjectInput{
		TeamName:               r.TeamName,
		OrganisationID:         r.OrganisationID,
		ItemID:                 r.ItemID,
		LocationID:             r.LocationID,
		PoNo:                   r.PoNo,
		PoDocument:             r.PoDocument,
		SapPoNo:                r.SapPoNo,
		PerformanceCertificate: r.PerformanceCertificate,
		CompletionDocument:     r.CompletionDocument,
		TenderID:               r.TenderID,
		EnquiryID:              r.EnquiryID,
	}

	var err error
	if in.PoDate, err = parseDatePtr(r.PoDate); err != nil {
		return in, fmt.Errorf("poDate: %w", err)
	}
	if in.SapPoDate, err = parseDatePtr(r.SapPoDate); err != nil {
		return in, fmt.Errorf("sapPoDate: %w", err)
	}
	if in.PerformanceDate, err = parseDatePtr(r.PerformanceDate); err != nil {
		return in, fmt.Errorf("performanceDate: %w", err)
	}
	if in.CompletionDate, err = parseDatePtr(r.CompletionDate); err != nil {
		return in, fmt.Errorf("completionDate: %w", err)
	}
	return in, nil
}

// parseDatePtr accepts plain dates and RFC3339 timestamps.
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", *s)
}
