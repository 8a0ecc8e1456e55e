package weatherquery_test

import (
	"database/sql"
	"errors"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gzoran/amap-weather/internal/db/weatherquery"
	"testing"
	"time"
)

type WeatherRepositorySuite struct {
	suite.Suite
	DB   *gorm.DB
	mock sqlmock.Sqlmock
	repo weatherquery.Repository
}

func (s *WeatherRepositorySuite) SetupSuite() {
	var err error

	var db *sql.DB
	db, s.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	s.Require().NoError(err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	s.DB, err = gorm.Open(dialector, &gorm.Config{})
	s.Require().NoError(err)

	s.repo = weatherquery.NewRepository(s.DB)
}

func (s *WeatherRepositorySuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *WeatherRepositorySuite) TestLogWeatherQuery() {
	s.Run("Successfully logs a successful weather query", func() {
		query := &weatherquery.WeatherQuery{
			RequestID:  "01J9Z3N4B6Q8R2S4T6V8W0X2Y4",
			City:       "440300",
			Type:       "base",
			Format:     "json",
			Success:    true,
			DurationMs: 42,
		}

		s.mock.ExpectBegin()
		s.mock.ExpectQuery(`INSERT INTO "weather_queries"`).
			WithArgs(
				query.RequestID,
				query.City,
				query.Type,
				query.Format,
				true,
				"",
				0,
				int64(42),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		s.mock.ExpectCommit()

		err := s.repo.LogWeatherQuery(query)

		s.Require().NoError(err)
		s.Require().Equal(uint(1), query.ID)
		s.Require().False(query.CreatedAt.IsZero())
	})

	s.Run("Successfully logs a failed weather query", func() {
		query := &weatherquery.WeatherQuery{
			RequestID:    "01J9Z3N4B6Q8R2S4T6V8W0X2Y5",
			City:         "深圳",
			Type:         "all",
			Format:       "xml",
			ErrorMessage: "request timeout",
			StatusCode:   504,
			DurationMs:   10000,
		}

		s.mock.ExpectBegin()
		s.mock.ExpectQuery(`INSERT INTO "weather_queries"`).
			WithArgs(
				query.RequestID,
				query.City,
				query.Type,
				query.Format,
				false,
				"request timeout",
				504,
				int64(10000),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		s.mock.ExpectCommit()

		err := s.repo.LogWeatherQuery(query)

		s.Require().NoError(err)
		s.Require().Equal(uint(2), query.ID)
	})

	s.Run("Returns error when database operation fails", func() {
		query := &weatherquery.WeatherQuery{
			City:   "Paris",
			Type:   "base",
			Format: "json",
		}
		dbError := errors.New("database error")

		s.mock.ExpectBegin()
		s.mock.ExpectQuery(`INSERT INTO "weather_queries"`).
			WillReturnError(dbError)
		s.mock.ExpectRollback()

		err := s.repo.LogWeatherQuery(query)

		s.Require().Error(err)
		s.Require().Equal("database error", err.Error())
	})
}

func (s *WeatherRepositorySuite) TestGetRecentWeatherQuery() {
	queryRegex := `SELECT \* FROM "weather_queries" WHERE city = \$1 ORDER BY created_at DESC,"weather_queries"."id" LIMIT \$2`

	s.Run("Successfully retrieves the most recent weather query", func() {
		city := "440300"
		createdAt := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "request_id", "city", "type", "format", "success",
			"error_message", "status_code", "duration_ms", "created_at",
		}).AddRow(
			7, "01J9Z3N4B6Q8R2S4T6V8W0X2Y4", city, "all", "json", true,
			"", 0, 35, createdAt,
		)

		s.mock.ExpectQuery(queryRegex).
			WithArgs(city, 1).
			WillReturnRows(rows)

		result, err := s.repo.GetRecentWeatherQuery(city)

		s.Require().NoError(err)
		s.Require().NotNil(result)
		s.Require().Equal(uint(7), result.ID)
		s.Require().Equal(city, result.City)
		s.Require().Equal("all", result.Type)
		s.Require().True(result.Success)
		s.Require().Equal(int64(35), result.DurationMs)
	})

	s.Run("Returns error when no record found", func() {
		city := "Tokyo"

		s.mock.ExpectQuery(queryRegex).
			WithArgs(city, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		result, err := s.repo.GetRecentWeatherQuery(city)

		s.Require().Error(err)
		s.Require().Equal("record not found", err.Error())
		s.Require().Nil(result)
	})

	s.Run("Returns error when database query fails", func() {
		city := "Berlin"
		dbError := errors.New("connection error")

		s.mock.ExpectQuery(queryRegex).
			WithArgs(city, 1).
			WillReturnError(dbError)

		result, err := s.repo.GetRecentWeatherQuery(city)

		s.Require().Error(err)
		s.Require().Equal("connection error", err.Error())
		s.Require().Nil(result)
	})
}

func TestWeatherRepositorySuite(t *testing.T) {
	suite.Run(t, new(WeatherRepositorySuite))
}
