package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockSchoolListRepository(t *testing.T) (*GormSchoolListRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormSchoolListRepository(gormDB), mock, mockDB
}

func TestGormSchoolListRepository_FindByID(t *testing.T) {
	t.Run("finds list with items ordered by sort order", func(t *testing.T) {
		repo, mock, mockDB := newMockSchoolListRepository(t)
		defer mockDB.Close()

		listID := uuid.New()
		itemID := uuid.New()

		listRows := sqlmock.NewRows([]string{"id", "school_name", "region", "commune", "grade", "grade_section"}).
			AddRow(listID, "Colegio San Ignacio", "Metropolitana de Santiago", "Providencia", "4° Básico", "A")
		mock.ExpectQuery(`SELECT \* FROM "school_lists" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(listID, 1).
			WillReturnRows(listRows)

		itemRows := sqlmock.NewRows([]string{"id", "list_id", "product_id", "variant_id", "name", "product_code", "unit_price", "quantity", "image_url", "sort_order"}).
			AddRow(itemID, listID, "111", "222", "Cuaderno universitario 100 hojas", "CU-100", decimal.NewFromInt(1890), 5, "", 0)
		mock.ExpectQuery(`SELECT \* FROM "school_list_items" WHERE "school_list_items"\."list_id" = \$1 ORDER BY sort_order ASC`).
			WithArgs(listID).
			WillReturnRows(itemRows)

		list, err := repo.FindByID(context.Background(), listID)

		require.NoError(t, err)
		assert.Equal(t, "Colegio San Ignacio", list.SchoolName)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "Cuaderno universitario 100 hojas", list.Items[0].Name)
		assert.Equal(t, 5, list.Items[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing list", func(t *testing.T) {
		repo, mock, mockDB := newMockSchoolListRepository(t)
		defer mockDB.Close()

		listID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "school_lists" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(listID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		list, err := repo.FindByID(context.Background(), listID)

		assert.Nil(t, list)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSchoolListRepository_Search(t *testing.T) {
	t.Run("filters by school name and region", func(t *testing.T) {
		repo, mock, mockDB := newMockSchoolListRepository(t)
		defer mockDB.Close()

		listID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "school_lists" WHERE school_name ILIKE \$1 AND region = \$2`).
			WithArgs("%San Ignacio%", "Metropolitana de Santiago").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "school_name", "region", "commune", "grade", "grade_section", "item_count"}).
			AddRow(listID, "Colegio San Ignacio", "Metropolitana de Santiago", "Providencia", "4° Básico", "A", 24)
		mock.ExpectQuery(`SELECT school_lists\.\*, \(SELECT COUNT\(\*\) FROM school_list_items WHERE school_list_items\.list_id = school_lists\.id\) AS item_count FROM "school_lists" WHERE school_name ILIKE \$1 AND region = \$2 ORDER BY school_name ASC, grade ASC, grade_section ASC LIMIT .*`).
			WithArgs("%San Ignacio%", "Metropolitana de Santiago", 20).
			WillReturnRows(rows)

		summaries, total, err := repo.Search(context.Background(), listing.SearchFilter{
			SchoolName: "San Ignacio",
			Region:     "Metropolitana de Santiago",
			Limit:      20,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, summaries, 1)
		assert.Equal(t, listID, summaries[0].ID)
		assert.Equal(t, 24, summaries[0].ItemCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty result without error", func(t *testing.T) {
		repo, mock, mockDB := newMockSchoolListRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "school_lists" WHERE commune = \$1`).
			WithArgs("Ñuñoa").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT school_lists\.\*, .* FROM "school_lists" WHERE commune = \$1 .* LIMIT .*`).
			WithArgs("Ñuñoa", 10).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		summaries, total, err := repo.Search(context.Background(), listing.SearchFilter{Commune: "Ñuñoa", Limit: 10})

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, summaries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSchoolListRepository_SchoolNames(t *testing.T) {
	t.Run("returns distinct names for prefix", func(t *testing.T) {
		repo, mock, mockDB := newMockSchoolListRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"school_name"}).
			AddRow("Colegio Alemán").
			AddRow("Colegio San Ignacio")
		mock.ExpectQuery(`SELECT DISTINCT "school_name" FROM "school_lists" WHERE school_name ILIKE \$1 ORDER BY school_name ASC LIMIT .*`).
			WithArgs("Colegio%", 10).
			WillReturnRows(rows)

		names, err := repo.SchoolNames(context.Background(), "Colegio", 10)

		require.NoError(t, err)
		assert.Equal(t, []string{"Colegio Alemán", "Colegio San Ignacio"}, names)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSchoolListRepository_Delete(t *testing.T) {
	t.Run("deletes existing list", func(t *testing.T) {
		repo, mock, mockDB := newMockSchoolListRepository(t)
		defer mockDB.Close()

		listID := uuid.New()
		mock.ExpectExec(`DELETE FROM "school_lists" WHERE id = \$1`).
			WithArgs(listID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), listID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockSchoolListRepository(t)
		defer mockDB.Close()

		listID := uuid.New()
		mock.ExpectExec(`DELETE FROM "school_lists" WHERE id = \$1`).
			WithArgs(listID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), listID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSchoolListRepository_DistinctFilters(t *testing.T) {
	repo, mock, mockDB := newMockSchoolListRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT DISTINCT "region" FROM "school_lists" ORDER BY region ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"region"}).
			AddRow("Metropolitana de Santiago").
			AddRow("Valparaíso"))
	mock.ExpectQuery(`SELECT DISTINCT "commune" FROM "school_lists" ORDER BY commune ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"commune"}).
			AddRow("Providencia"))
	mock.ExpectQuery(`SELECT DISTINCT "grade" FROM "school_lists" ORDER BY grade ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"grade"}).
			AddRow("4° Básico"))

	opts, err := repo.DistinctFilters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Metropolitana de Santiago", "Valparaíso"}, opts.Regions)
	assert.Equal(t, []string{"Providencia"}, opts.Communes)
	assert.Equal(t, []string{"4° Básico"}, opts.Grades)
	assert.NoError(t, mock.ExpectationsWereMet())
}
