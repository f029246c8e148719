package programs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/kinawahq/foodorder-backend/pkg/errors"
)

func setupProgramsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:programstest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS programs (
  id TEXT PRIMARY KEY,
  short_code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  color TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	require.NoError(t, db.Exec("DELETE FROM programs").Error)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupProgramsTestDB(t)
	ctx := context.Background()

	created, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, len(defaultPrograms), created)

	created, err = Seed(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, created)

	svc := newTestService(t, db)
	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, len(defaultPrograms))
}

func TestListOrdersByCategoryThenName(t *testing.T) {
	db := setupProgramsTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db)
	require.NoError(t, err)

	svc := newTestService(t, db)
	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Category == cur.Category {
			assert.LessOrEqual(t, prev.Name, cur.Name)
		} else {
			assert.Less(t, prev.Category, cur.Category)
		}
	}
}

func TestListByCategoryGroups(t *testing.T) {
	db := setupProgramsTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db)
	require.NoError(t, err)

	svc := newTestService(t, db)
	groups, err := svc.ListByCategory(ctx, true)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	total := 0
	for _, group := range groups {
		assert.NotEmpty(t, group.Programs)
		for _, program := range group.Programs {
			assert.Equal(t, group.Category, program.Category)
		}
		total += len(group.Programs)
	}
	assert.Equal(t, len(defaultPrograms), total)
}

func TestCreateEnforcesUniqueShortCode(t *testing.T) {
	db := setupProgramsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	input := CreateProgramInput{ShortCode: "TD9", Name: "Toddler Room 9", Category: "toddler", Color: "#abcdef"}
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	_, err = svc.Create(ctx, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreateValidatesInput(t *testing.T) {
	db := setupProgramsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProgramInput{Name: "No Code", Category: "toddler"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateProgramInput{ShortCode: "XX1", Name: "Bad Category", Category: "preschool"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestResolveAndDeactivate(t *testing.T) {
	db := setupProgramsTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db)
	require.NoError(t, err)

	svc := newTestService(t, db)
	program, err := svc.Resolve(ctx, "TD1")
	require.NoError(t, err)
	assert.Equal(t, "Toddler Room 1", program.Name)

	program, err = svc.Deactivate(ctx, "TD1")
	require.NoError(t, err)
	assert.False(t, program.IsActive)

	program, err = svc.Deactivate(ctx, "TD1")
	require.NoError(t, err)
	assert.False(t, program.IsActive)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, len(defaultPrograms)-1)

	_, err = svc.Resolve(ctx, "ZZZ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
