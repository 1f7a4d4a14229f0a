package services

import (
	"gestionale_veicoli_go/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func caseWithNumber(number *string, createdAt time.Time) models.Case {
	return models.Case{
		ID:             uuid.New().String(),
		CreatedAt:      createdAt,
		CaseNumber:     "CASE-" + uuid.New().String()[:8],
		ProcedureType:  models.ProcedureTypeAmministrativo,
		Status:         models.CaseStatusOpen,
		OpenedAt:       createdAt,
		InternalNumber: number,
	}
}

func internalNumbers(cases []models.Case) []string {
	out := make([]string, 0, len(cases))
	for _, item := range cases {
		if item.InternalNumber == nil {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, *item.InternalNumber)
	}
	return out
}

func TestSortCasesNumericAscending(t *testing.T) {
	now := time.Now()
	cases := []models.Case{
		caseWithNumber(strPtr("12"), now),
		caseWithNumber(strPtr("3"), now),
		caseWithNumber(strPtr("101"), now),
	}

	SortCases(cases)
	assert.Equal(t, []string{"3", "12", "101"}, internalNumbers(cases))
}

func TestSortCasesExtractsDigits(t *testing.T) {
	now := time.Now()
	cases := []models.Case{
		caseWithNumber(strPtr("12/B"), now),
		caseWithNumber(strPtr("N. 3"), now),
		caseWithNumber(strPtr("7"), now),
	}

	SortCases(cases)
	assert.Equal(t, []string{"N. 3", "7", "12/B"}, internalNumbers(cases))
}

func TestSortCasesTieBrokenByRawString(t *testing.T) {
	now := time.Now()
	cases := []models.Case{
		caseWithNumber(strPtr("5/B"), now),
		caseWithNumber(strPtr("5/A"), now),
	}

	SortCases(cases)
	assert.Equal(t, []string{"5/A", "5/B"}, internalNumbers(cases))
}

func TestSortCasesUnnumberedLastNewestFirst(t *testing.T) {
	now := time.Now()
	older := caseWithNumber(nil, now.Add(-time.Hour))
	newer := caseWithNumber(nil, now)
	numbered := caseWithNumber(strPtr("900"), now.Add(-2*time.Hour))

	cases := []models.Case{older, newer, numbered}
	SortCases(cases)

	assert.Equal(t, "900", *cases[0].InternalNumber)
	assert.Equal(t, newer.ID, cases[1].ID)
	assert.Equal(t, older.ID, cases[2].ID)
}

func TestSortCasesIsIdempotent(t *testing.T) {
	now := time.Now()
	cases := []models.Case{
		caseWithNumber(strPtr("5/B"), now),
		caseWithNumber(strPtr("5/A"), now),
		caseWithNumber(nil, now.Add(-time.Minute)),
		caseWithNumber(strPtr("2"), now),
		caseWithNumber(nil, now),
	}

	SortCases(cases)
	first := internalNumbers(cases)
	SortCases(cases)
	assert.Equal(t, first, internalNumbers(cases))
}

func TestMergeCaseListsPreservesPriorOrder(t *testing.T) {
	now := time.Now()
	a := caseWithNumber(strPtr("1"), now)
	b := caseWithNumber(strPtr("2"), now)
	cRow := caseWithNumber(strPtr("3"), now)

	// B got edited upstream, A and C were deleted, D is new
	bUpdated := b
	bUpdated.Status = models.CaseStatusReleased
	d := caseWithNumber(strPtr("4"), now)

	merged := mergeCaseLists(
		[]models.Case{a, b, cRow},
		[]models.Case{bUpdated, d},
	)

	assert.Len(t, merged, 2)
	assert.Equal(t, b.ID, merged[0].ID)
	assert.Equal(t, models.CaseStatusReleased, merged[0].Status)
	assert.Equal(t, d.ID, merged[1].ID)
}

func TestMergeCaseListsAppendsNewInFetchOrder(t *testing.T) {
	now := time.Now()
	a := caseWithNumber(strPtr("1"), now)
	x := caseWithNumber(strPtr("8"), now)
	y := caseWithNumber(strPtr("9"), now)

	merged := mergeCaseLists([]models.Case{a}, []models.Case{y, a, x})

	assert.Len(t, merged, 3)
	assert.Equal(t, a.ID, merged[0].ID)
	assert.Equal(t, y.ID, merged[1].ID)
	assert.Equal(t, x.ID, merged[2].ID)
}

func TestBoardReloadSelectsFirstRow(t *testing.T) {
	db := setupTestDB(t)
	board := NewCaseBoard()

	_, err := CreateCaseFromForm(db, seizureForm("20", "AB123CD"), defaultContext())
	assert.NoError(t, err)
	first, err := CreateCaseFromForm(db, seizureForm("5", "EF456GH"), defaultContext())
	assert.NoError(t, err)

	assert.NoError(t, board.Reload(db))

	snapshot := board.Snapshot()
	assert.Len(t, snapshot.Cases, 2)
	// Display order puts the lowest internal number first
	assert.Equal(t, first.ID, snapshot.Cases[0].ID)
	assert.NotNil(t, snapshot.SelectedID)
	assert.Equal(t, first.ID, *snapshot.SelectedID)
}

func TestBoardSelectionSurvivesSilentRefresh(t *testing.T) {
	db := setupTestDB(t)
	board := NewCaseBoard()

	_, err := CreateCaseFromForm(db, seizureForm("1", "AB123CD"), defaultContext())
	assert.NoError(t, err)
	target, err := CreateCaseFromForm(db, seizureForm("2", "EF456GH"), defaultContext())
	assert.NoError(t, err)

	assert.NoError(t, board.Reload(db))
	board.Select(target.ID)

	board.RefreshSilent(db)

	snapshot := board.Snapshot()
	assert.Equal(t, target.ID, *snapshot.SelectedID)
}

func TestBoardSelectionHealsWhenRowVanishes(t *testing.T) {
	db := setupTestDB(t)
	board := NewCaseBoard()

	keeper, err := CreateCaseFromForm(db, seizureForm("1", "AB123CD"), defaultContext())
	assert.NoError(t, err)
	doomed, err := CreateCaseFromForm(db, seizureForm("2", "EF456GH"), defaultContext())
	assert.NoError(t, err)

	assert.NoError(t, board.Reload(db))
	board.Select(doomed.ID)
	board.ToggleChecked(doomed.ID)

	assert.NoError(t, DeleteCases(db, []string{doomed.ID}))
	board.RefreshSilent(db)

	snapshot := board.Snapshot()
	assert.Len(t, snapshot.Cases, 1)
	assert.Equal(t, keeper.ID, *snapshot.SelectedID)
	assert.Empty(t, snapshot.CheckedIDs)
}

func TestBoardRefreshSilentSwallowsErrors(t *testing.T) {
	db := setupTestDB(t)
	board := NewCaseBoard()

	_, err := CreateCaseFromForm(db, seizureForm("1", "AB123CD"), defaultContext())
	assert.NoError(t, err)
	assert.NoError(t, board.Reload(db))

	// Break the store out from under the board
	assert.NoError(t, db.Migrator().DropTable(&models.Case{}))

	board.RefreshSilent(db)

	// The previous view must survive the failed refresh
	snapshot := board.Snapshot()
	assert.Len(t, snapshot.Cases, 1)
}

func TestBoardReloadPropagatesErrors(t *testing.T) {
	db := setupTestDB(t)
	board := NewCaseBoard()

	assert.NoError(t, db.Migrator().DropTable(&models.Case{}))
	assert.Error(t, board.Reload(db))
}

func TestBoardToggleChecked(t *testing.T) {
	db := setupTestDB(t)
	board := NewCaseBoard()

	created, err := CreateCaseFromForm(db, seizureForm("1", "AB123CD"), defaultContext())
	assert.NoError(t, err)
	assert.NoError(t, board.Reload(db))

	board.ToggleChecked(created.ID)
	assert.Equal(t, []string{created.ID}, board.Snapshot().CheckedIDs)

	board.ToggleChecked(created.ID)
	assert.Empty(t, board.Snapshot().CheckedIDs)
}

func TestBoardSelectUnknownFallsBackToFirst(t *testing.T) {
	db := setupTestDB(t)
	board := NewCaseBoard()

	created, err := CreateCaseFromForm(db, seizureForm("1", "AB123CD"), defaultContext())
	assert.NoError(t, err)
	assert.NoError(t, board.Reload(db))

	board.Select("no-such-id")
	assert.Equal(t, created.ID, *board.Snapshot().SelectedID)
}
