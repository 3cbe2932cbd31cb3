package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tenderops/procurement-backend/internal/projects/codegen"
	"github.com/tenderops/procurement-backend/internal/projects/domain"
	"github.com/tenderops/procurement-backend/internal/projects/repository"
)

const (
	defaultPageLimit = 50

	// Attempts at allocating a unique project code before giving up.
	// Collisions only happen when concurrent creates share a prefix, so a
	// handful of retries is plenty.
	maxCodeAttempts = 5
)

// ProjectService orchestrates the project lifecycle: reference resolution,
// code/name generation and persistence.
type ProjectService struct {
	repo   *repository.ProjectRepository
	gen    *codegen.Generator
	logger *zap.Logger
}

// New creates a new project service
func New(repo *repository.ProjectRepository, gen *codegen.Generator, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{repo: repo, gen: gen, logger: logger}
}

// Create generates projectCode/projectName for the input and persists the
// project. When the insert hits the unique index on project_code (two
// concurrent creates sharing a prefix), the code is regenerated and the
// insert retried.
func (s *ProjectService) Create(ctx context.Context, in domain.CreateProjectInput) (*domain.Project, error) {
	if in.TeamName == "" {
		return nil, fmt.Errorf("teamName required")
	}
	if in.ItemID == 0 {
		return nil, fmt.Errorf("itemId required")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, name, err := s.gen.Generate(ctx, codegen.Input{
			TeamName:       in.TeamName,
			OrganisationID: in.OrganisationID,
			ItemID:         in.ItemID,
			LocationID:     in.LocationID,
		})
		if err != nil {
			return nil, err
		}

		now := time.Now()
		p := &domain.Project{
			TeamName:               in.TeamName,
			OrganisationID:         in.OrganisationID,
			ItemID:                 in.ItemID,
			LocationID:             in.LocationID,
			ProjectCode:            code,
			ProjectName:            name,
			PoNo:                   in.PoNo,
			PoDocument:             in.PoDocument,
			PoDate:                 in.PoDate,
			SapPoNo:                in.SapPoNo,
			SapPoDate:              in.SapPoDate,
			PerformanceCertificate: in.PerformanceCertificate,
			PerformanceDate:        in.PerformanceDate,
			CompletionDocument:     in.CompletionDocument,
			CompletionDate:         in.CompletionDate,
			TenderID:               in.TenderID,
			EnquiryID:              in.EnquiryID,
			CreatedAt:              now,
			UpdatedAt:              now,
		}

		stored, err := s.repo.Insert(ctx, p)
		if err == nil {
			return stored, nil
		}
		if repository.IsUniqueViolation(err) {
			s.logger.Warn("project code collision, regenerating",
				zap.String("projectCode", code), zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	return nil, domain.ErrCodeExhausted
}

// Get returns the project with the given id.
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update. projectCode and projectName are
// regenerated only when itemId is supplied or organisationId/locationId is
// explicitly present in the patch (including an explicit null); all other
// fields are overwrite-if-supplied.
func (s *ProjectService) Update(ctx context.Context, id int64, in domain.UpdateProjectInput) (*domain.Project, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	applyPatch(&merged, in)
	merged.UpdatedAt = time.Now()

	regenerate := in.ItemID != nil || in.OrganisationID.Set || in.LocationID.Set
	if !regenerate {
		return s.repo.Update(ctx, &merged)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, name, err := s.gen.Generate(ctx, codegen.Input{
			TeamName:       merged.TeamName,
			OrganisationID: merged.OrganisationID,
			ItemID:         merged.ItemID,
			LocationID:     merged.LocationID,
		})
		if err != nil {
			return nil, err
		}
		merged.ProjectCode = code
		merged.ProjectName = name

		updated, err := s.repo.Update(ctx, &merged)
		if err == nil {
			return updated, nil
		}
		if repository.IsUniqueViolation(err) {
			s.logger.Warn("project code collision on update, regenerating",
				zap.Int64("id", id), zap.String("projectCode", code), zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	return nil, domain.ErrCodeExhausted
}

// Delete removes a project by id.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List returns a filtered, paginated page of projects, newest first.
func (s *ProjectService) List(ctx context.Context, f domain.ListFilters) (*domain.ListResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}

	data, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &domain.ListResult{
		Data: data,
		Meta: domain.ListMeta{Total: total, Page: f.Page, Limit: f.Limit},
	}, nil
}

func applyPatch(p *domain.Project, in domain.UpdateProjectInput) {
	if in.TeamName != nil {
		p.TeamName = *in.TeamName
	}
	if in.OrganisationID.Set {
		p.OrganisationID = in.OrganisationID.Value
	}
	if in.ItemID != nil {
		p.ItemID = *in.ItemID
	}
	if in.LocationID.Set {
		p.LocationID = in.LocationID.Value
	}
	if in.PoNo != nil {
		p.PoNo = in.PoNo
	}
	if in.PoDocument != nil {
		p.PoDocument = in.PoDocument
	}
	if in.PoDate != nil {
		p.PoDate = in.PoDate
	}
	if in.SapPoNo != nil {
		p.SapPoNo = in.SapPoNo
	}
	if in.SapPoDate != nil {
		p.SapPoDate = in.SapPoDate
	}
	if in.PerformanceCertificate != nil {
		p.PerformanceCertificate = in.PerformanceCertificate
	}
	if in.PerformanceDate != nil {
		p.PerformanceDate = in.PerformanceDate
	}
	if in.CompletionDocument != nil {
		p.CompletionDocument = in.CompletionDocument
	}
	if in.CompletionDate != nil {
		p.CompletionDate = in.CompletionDate
	}
	if in.TenderID.Set {
		p.TenderID = in.TenderID.Value
	}
	if in.EnquiryID.Set {
		p.EnquiryID = in.EnquiryID.Value
	}
}
