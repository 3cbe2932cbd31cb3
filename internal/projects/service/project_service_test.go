package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdomain "github.com/tenderops/procurement-backend/internal/masters/domain"
	"github.com/tenderops/procurement-backend/internal/projects/codegen"
	"github.com/tenderops/procurement-backend/internal/projects/domain"
	"github.com/tenderops/procurement-backend/internal/projects/repository"
)

type fakeRefs struct {
	items map[int64]*mdomain.Item
}

func (f *fakeRefs) GetOrganisation(_ context.Context, _ int64) (*mdomain.Organisation, error) {
	return nil, nil
}

func (f *fakeRefs) GetItem(_ context.Context, id int64) (*mdomain.Item, error) {
	return f.items[id], nil
}

func (f *fakeRefs) GetLocation(_ context.Context, _ int64) (*mdomain.Location, error) {
	return nil, nil
}

var projectCols = []string{
	"id", "team_name", "organisation_id", "item_id", "location_id",
	"po_no", "project_code", "project_name", "po_document", "po_date",
	"performance_certificate", "performance_date", "completion_document", "completion_date",
	"sap_po_no", "sap_po_date", "tender_id", "enquiry_id", "created_at", "updated_at",
}

func projectRow(id int64, itemID int64, code string, poNo *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(projectCols).AddRow(
		id, "ALPHA", nil, itemID, nil,
		poNo, code, "ORG - Cement - LOC", nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil, now, now,
	)
}

func setupService(t *testing.T) (*ProjectService, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := repository.New(db)
	gen := codegen.NewGenerator(&fakeRefs{
		items: map[int64]*mdomain.Item{
			7: {ID: 7, Name: "Cement"},
			8: {ID: 8, Name: "Steel"},
		},
	}, repo)
	gen.Now = func() time.Time { return time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC) }

	return New(repo, gen, nil), mock, db
}

func TestProjectService_Create(t *testing.T) {
	t.Run("first project in a prefix gets sequence 0001", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT project_code`).
			WithArgs("ALPHA/2425/ORG/CEMENT/LOC/%").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnRows(projectRow(1, 7, "ALPHA/2425/ORG/CEMENT/LOC/0001", nil))

		p, err := svc.Create(context.Background(), domain.CreateProjectInput{TeamName: "ALPHA", ItemID: 7})
		require.NoError(t, err)
		assert.Equal(t, "ALPHA/2425/ORG/CEMENT/LOC/0001", p.ProjectCode)
		assert.Equal(t, "ORG - Cement - LOC", p.ProjectName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		_, err := svc.Create(context.Background(), domain.CreateProjectInput{ItemID: 7})
		assert.Error(t, err)

		_, err = svc.Create(context.Background(), domain.CreateProjectInput{TeamName: "ALPHA"})
		assert.Error(t, err)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent code collision is resolved by regenerating", func(t *testing.T) {
		// Two creates race on the same prefix; the loser's insert trips the
		// unique index and it must come back with the next sequence, never a
		// duplicate code.
		svc, mock, db := setupService(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT project_code`).
			WithArgs("ALPHA/2425/ORG/CEMENT/LOC/%").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnError(&pq.Error{Code: "23505"})

		// Retry sees the winner's row and allocates the successor.
		mock.ExpectQuery(`SELECT project_code`).
			WithArgs("ALPHA/2425/ORG/CEMENT/LOC/%").
			WillReturnRows(sqlmock.NewRows([]string{"project_code"}).
				AddRow("ALPHA/2425/ORG/CEMENT/LOC/0001"))
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnRows(projectRow(2, 7, "ALPHA/2425/ORG/CEMENT/LOC/0002", nil))

		p, err := svc.Create(context.Background(), domain.CreateProjectInput{TeamName: "ALPHA", ItemID: 7})
		require.NoError(t, err)
		assert.Equal(t, "ALPHA/2425/ORG/CEMENT/LOC/0002", p.ProjectCode)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		for i := 0; i < 5; i++ {
			mock.ExpectQuery(`SELECT project_code`).
				WillReturnError(sql.ErrNoRows)
			mock.ExpectQuery(`INSERT INTO projects`).
				WillReturnError(&pq.Error{Code: "23505"})
		}

		_, err := svc.Create(context.Background(), domain.CreateProjectInput{TeamName: "ALPHA", ItemID: 7})
		assert.ErrorIs(t, err, domain.ErrCodeExhausted)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectService_Update(t *testing.T) {
	t.Run("poNo-only update keeps code and name", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		poNo := "PO-9001"
		mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(projectRow(1, 7, "ALPHA/2425/ORG/CEMENT/LOC/0001", nil))
		mock.ExpectQuery(`UPDATE projects`).
			WillReturnRows(projectRow(1, 7, "ALPHA/2425/ORG/CEMENT/LOC/0001", &poNo))

		p, err := svc.Update(context.Background(), 1, domain.UpdateProjectInput{PoNo: &poNo})
		require.NoError(t, err)
		assert.Equal(t, "ALPHA/2425/ORG/CEMENT/LOC/0001", p.ProjectCode)
		if assert.NotNil(t, p.PoNo) {
			assert.Equal(t, "PO-9001", *p.PoNo)
		}
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("itemId change regenerates code and name", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		newItem := int64(8)
		mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(projectRow(1, 7, "ALPHA/2425/ORG/CEMENT/LOC/0001", nil))
		mock.ExpectQuery(`SELECT project_code`).
			WithArgs("ALPHA/2425/ORG/STEEL/LOC/%").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`UPDATE projects`).
			WillReturnRows(projectRow(1, 8, "ALPHA/2425/ORG/STEEL/LOC/0001", nil))

		p, err := svc.Update(context.Background(), 1, domain.UpdateProjectInput{ItemID: &newItem})
		require.NoError(t, err)
		assert.Equal(t, "ALPHA/2425/ORG/STEEL/LOC/0001", p.ProjectCode)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clearing the organisation still regenerates", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(projectRow(1, 7, "ALPHA/2425/NTPC/CEMENT/LOC/0001", nil))
		mock.ExpectQuery(`SELECT project_code`).
			WithArgs("ALPHA/2425/ORG/CEMENT/LOC/%").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`UPDATE projects`).
			WillReturnRows(projectRow(1, 7, "ALPHA/2425/ORG/CEMENT/LOC/0001", nil))

		p, err := svc.Update(context.Background(), 1, domain.UpdateProjectInput{
			OrganisationID: domain.Optional[int64]{Set: true, Value: nil},
		})
		require.NoError(t, err)
		assert.Equal(t, "ALPHA/2425/ORG/CEMENT/LOC/0001", p.ProjectCode)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id`).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := svc.Update(context.Background(), 404, domain.UpdateProjectInput{})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectService_List(t *testing.T) {
	t.Run("applies pagination defaults", func(t *testing.T) {
		svc, mock, db := setupService(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT (.+) FROM projects ORDER BY created_at DESC`).
			WithArgs(50, 0).
			WillReturnRows(projectRow(1, 7, "ALPHA/2425/ORG/CEMENT/LOC/0001", nil))

		result, err := svc.List(context.Background(), domain.ListFilters{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Meta.Page)
		assert.Equal(t, 50, result.Meta.Limit)
		assert.Equal(t, int64(1), result.Meta.Total)
		assert.Len(t, result.Data, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
