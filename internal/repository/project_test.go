package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProjectRepository_GetByIDForUser_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE (id = $1 AND user_id = $2) AND "projects"."deleted_at" IS NULL ORDER BY "projects"."id" LIMIT $3`)).
		WithArgs(42, 1, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByIDForUser(context.Background(), 42, 1)
	assert.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetMostRecent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "updated_at"}).
		AddRow(5, 1, "Launch Series", now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE user_id = $1 AND "projects"."deleted_at" IS NULL ORDER BY updated_at DESC,"projects"."id" LIMIT $2`)).
		WithArgs(1, 1).
		WillReturnRows(rows)

	project, err := repo.GetMostRecent(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, "Launch Series", project.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetMostRecent_NoneIsNotAnError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE user_id = $1 AND "projects"."deleted_at" IS NULL ORDER BY updated_at DESC,"projects"."id" LIMIT $2`)).
		WithArgs(3, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	project, err := repo.GetMostRecent(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, project)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_ListByUser_OrderedByUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "updated_at"}).
		AddRow(9, 1, "Active", now).
		AddRow(2, 1, "Dormant", now.Add(-30*24*time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE user_id = $1 AND "projects"."deleted_at" IS NULL ORDER BY updated_at DESC`)).
		WithArgs(1).
		WillReturnRows(rows)

	projects, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Active", projects[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete_NotOwned(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "projects" SET "deleted_at"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 8, 2)
	assert.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
