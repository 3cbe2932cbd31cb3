package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/tenderops/procurement-backend/internal/projects/domain"
)

const projectColumns = `
id, team_name, organisation_id, item_id, location_id,
po_no, project_code, project_name, po_document, po_date,
performance_certificate, performance_date, completion_document, completion_date,
sap_po_no, sap_po_date, tender_id, enquiry_id, created_at, updated_at`

// ProjectRepository provides persistence operations for projects.
// The projects table carries a unique index on project_code; Insert and
// Update surface the resulting 23505 violations so the service can
// regenerate the code and retry.
type ProjectRepository struct {
	db *sql.DB
}

// New creates a new project repository
func New(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (duplicate project_code).
func IsUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Insert stores a new project and returns the row as persisted.
func (r *ProjectRepository) Insert(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	const q = `
INSERT INTO projects (
	team_name, organisation_id, item_id, location_id,
	po_no, project_code, project_name, po_document, po_date,
	performance_certificate, performance_date, completion_document, completion_date,
	sap_po_no, sap_po_date, tender_id, enquiry_id, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING ` + projectColumns + `;
`
	row := r.db.QueryRowContext(ctx, q,
		p.TeamName, p.OrganisationID, p.ItemID, p.LocationID,
		p.PoNo, p.ProjectCode, p.ProjectName, p.PoDocument, p.PoDate,
		p.PerformanceCertificate, p.PerformanceDate, p.CompletionDocument, p.CompletionDate,
		p.SapPoNo, p.SapPoDate, p.TenderID, p.EnquiryID, p.CreatedAt, p.UpdatedAt,
	)
	return scanProject(row)
}

// FindByID returns the project with the given id.
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	return p, err
}

// Update overwrites the full row and returns it; ErrProjectNotFound when
// the row vanished between load and write.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	const q = `
UPDATE projects
SET team_name = $2, organisation_id = $3, item_id = $4, location_id = $5,
	po_no = $6, project_code = $7, project_name = $8, po_document = $9, po_date = $10,
	performance_certificate = $11, performance_date = $12,
	completion_document = $13, completion_date = $14,
	sap_po_no = $15, sap_po_date = $16, tender_id = $17, enquiry_id = $18,
	updated_at = $19
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	row := r.db.QueryRowContext(ctx, q,
		p.ID, p.TeamName, p.OrganisationID, p.ItemID, p.LocationID,
		p.PoNo, p.ProjectCode, p.ProjectName, p.PoDocument, p.PoDate,
		p.PerformanceCertificate, p.PerformanceDate, p.CompletionDocument, p.CompletionDate,
		p.SapPoNo, p.SapPoDate, p.TenderID, p.EnquiryID, p.UpdatedAt,
	)
	updated, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	return updated, err
}

// Delete removes the project; hard delete, no tombstone.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// LastCodeWithPrefix returns the project_code of the most recently created
// project whose code starts with prefix + "/", or "" when there is none.
// Recency is by id, not by code order.
func (r *ProjectRepository) LastCodeWithPrefix(ctx context.Context, prefix string) (string, error) {
	const q = `
SELECT project_code
FROM projects
WHERE project_code LIKE $1
ORDER BY id DESC
LIMIT 1;
`
	var code string
	err := r.db.QueryRowContext(ctx, q, prefix+"/%").Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// List returns a page of projects matching the filters plus the unfiltered
// total for that WHERE clause. Always ordered by creation time, newest
// first.
func (r *ProjectRepository) List(ctx context.Context, f domain.ListFilters) ([]domain.Project, int64, error) {
	where, args := buildListWhere(f)

	countQ := `SELECT COUNT(*) FROM projects` + where + `;`
	var total int64
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	limitArgs := append(args, f.Limit, (f.Page-1)*f.Limit)
	listQ := `SELECT ` + projectColumns + ` FROM projects` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, listQ, limitArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, f.Limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func buildListWhere(f domain.ListFilters) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		ph := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(project_name ILIKE %[1]s OR project_code ILIKE %[1]s OR team_name ILIKE %[1]s OR po_no ILIKE %[1]s)", ph))
	}
	if f.TeamName != "" {
		conds = append(conds, "team_name ILIKE "+arg("%"+f.TeamName+"%"))
	}
	if f.OrganisationID != nil {
		conds = append(conds, "organisation_id = "+arg(*f.OrganisationID))
	}
	if f.ItemID != nil {
		conds = append(conds, "item_id = "+arg(*f.ItemID))
	}
	if f.LocationID != nil {
		conds = append(conds, "location_id = "+arg(*f.LocationID))
	}
	if f.FromDate != nil {
		conds = append(conds, "po_date >= "+arg(*f.FromDate))
	}
	if f.ToDate != nil {
		conds = append(conds, "po_date <= "+arg(*f.ToDate))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.TeamName, &p.OrganisationID, &p.ItemID, &p.LocationID,
		&p.PoNo, &p.ProjectCode, &p.ProjectName, &p.PoDocument, &p.PoDate,
		&p.PerformanceCertificate, &p.PerformanceDate, &p.CompletionDocument, &p.CompletionDate,
		&p.SapPoNo, &p.SapPoDate, &p.TenderID, &p.EnquiryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
