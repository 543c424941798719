package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockAdminRepository(t *testing.T) (*GormAdminRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormAdminRepository(gormDB), mock, mockDB
}

func TestGormAdminRepository_FindByUsername(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, mock, mockDB := newMockAdminRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "display_name", "active"}).
			AddRow(userID, "admin", "$2a$10$hash", "Administrador", true)
		mock.ExpectQuery(`SELECT \* FROM "admin_users" WHERE username = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("admin", 1).
			WillReturnRows(rows)

		user, err := repo.FindByUsername(context.Background(), "admin")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "admin", user.Username)
		assert.True(t, user.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown user", func(t *testing.T) {
		repo, mock, mockDB := newMockAdminRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "admin_users" WHERE username = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("nobody", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.FindByUsername(context.Background(), "nobody")

		assert.Nil(t, user)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAdminRepository_RecordLogin(t *testing.T) {
	t.Run("stamps last login", func(t *testing.T) {
		repo, mock, mockDB := newMockAdminRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectExec(`UPDATE "admin_users" SET "last_login_at"=\$1 WHERE id = \$2`).
			WithArgs(at, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RecordLogin(context.Background(), userID, at)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when user is missing", func(t *testing.T) {
		repo, mock, mockDB := newMockAdminRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectExec(`UPDATE "admin_users" SET "last_login_at"=\$1 WHERE id = \$2`).
			WithArgs(at, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RecordLogin(context.Background(), userID, at)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
