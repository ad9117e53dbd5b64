package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esp32-copilot/go-copilot-backend/internal/wiring"
)

func newMockRepo(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSnapshotRepository(db), mock
}

func sampleResult() wiring.Result {
	return wiring.Result{
		Diagram:  "ESP32 DevKit V1 Wiring Diagram",
		Warnings: nil,
		PinAssignments: map[string]map[string]string{
			"dht22": {"DATA": "GPIO4"},
		},
		Components: []wiring.ComponentRef{{ID: "dht22", Name: "DHT22"}},
	}
}

func TestCreateVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleResult()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("select id")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
	mock.ExpectQuery(regexp.QuoteMeta("select coalesce(max(version_number), 0) + 1")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("insert into wiring_snapshots")).
		WithArgs(sqlmock.AnyArg(), "p1", 3, res.Diagram, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectCommit()

	snap, err := repo.CreateVersion(context.Background(), "p1", res)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "p1", snap.ProjectID)
	assert.Equal(t, 3, snap.VersionNumber)
	assert.Equal(t, res.Diagram, snap.Diagram)
	assert.Equal(t, created, snap.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVersion_ProjectMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("select id")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateVersion(context.Background(), "ghost", sampleResult())
	assert.ErrorIs(t, err, ErrProjectNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVersion_EmptyProjectID(t *testing.T) {
	repo, _ := newMockRepo(t)

	_, err := repo.CreateVersion(context.Background(), "", sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project id required")
}

func TestListByProject(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleResult()
	resultJSON, err := json.Marshal(res)
	require.NoError(t, err)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "project_id", "version_number", "diagram", "result", "created_at"}).
		AddRow("s2", "p1", 2, res.Diagram, resultJSON, created).
		AddRow("s1", "p1", 1, res.Diagram, resultJSON, created.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("from wiring_snapshots")).
		WithArgs("p1", 20).
		WillReturnRows(rows)

	snaps, err := repo.ListByProject(context.Background(), "p1", 0)
	require.NoError(t, err)

	require.Len(t, snaps, 2)
	assert.Equal(t, 2, snaps[0].VersionNumber, "newest first")
	assert.Equal(t, "GPIO4", snaps[0].Result.PinAssignments["dht22"]["DATA"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneOld(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("delete from wiring_snapshots")).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 4))

	removed, err := repo.PruneOld(context.Background(), 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, removed)

	assert.NoError(t, mock.ExpectationsWereMet())
}
