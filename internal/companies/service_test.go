package companies

import (
	"context"
	"testing"

	"greenvest-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCompaniesTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Company{}))
	return &Service{DB: db}
}

func validInput() CompanyInput {
	return CompanyInput{
		Name:            "Solar One",
		Sector:          "Energy",
		Description:     "Rooftop solar installer",
		StockPrice:      50,
		ESGScore:        8,
		AvailableShares: 1000,
	}
}

func TestCreateCompany(t *testing.T) {
	svc := setupCompaniesTest(t)

	company, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, company.CompanyID)
	assert.Equal(t, "Solar One", company.Name)
	assert.Equal(t, int64(1000), company.AvailableShares)
}

func TestCreateCompany_DuplicateName(t *testing.T) {
	svc := setupCompaniesTest(t)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestCreateCompany_Validation(t *testing.T) {
	svc := setupCompaniesTest(t)

	in := validInput()
	in.Name = ""
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrMissingFields)

	in = validInput()
	in.ESGScore = 0
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidESGScore)

	in = validInput()
	in.ESGScore = 10.5
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidESGScore)

	in = validInput()
	in.StockPrice = -1
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	in = validInput()
	in.AvailableShares = -10
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidShares)
}

func TestListAndGet(t *testing.T) {
	svc := setupCompaniesTest(t)

	zeta := validInput()
	zeta.Name = "Zeta Wind"
	created, err := svc.Create(context.Background(), zeta)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	companies, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "Solar One", companies[0].Name)
	assert.Equal(t, "Zeta Wind", companies[1].Name)

	got, err := svc.Get(context.Background(), created.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Zeta Wind", got.Name)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestUpdateCompany(t *testing.T) {
	svc := setupCompaniesTest(t)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Solar One Renamed"
	in.StockPrice = 75
	updated, err := svc.Update(context.Background(), created.CompanyID, in)
	require.NoError(t, err)
	assert.Equal(t, "Solar One Renamed", updated.Name)
	assert.Equal(t, 75.0, updated.StockPrice)
}

func TestUpdateCompany_RenameToTakenName(t *testing.T) {
	svc := setupCompaniesTest(t)
	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	other := validInput()
	other.Name = "AgroGrow"
	created, err := svc.Create(context.Background(), other)
	require.NoError(t, err)

	in := validInput() // name "Solar One", already taken
	_, err = svc.Update(context.Background(), created.CompanyID, in)
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestUpdateCompany_NotFound(t *testing.T) {
	svc := setupCompaniesTest(t)
	_, err := svc.Update(context.Background(), uuid.New(), validInput())
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestUpdatePrice(t *testing.T) {
	svc := setupCompaniesTest(t)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdatePrice(context.Background(), created.CompanyID, 62.5)
	require.NoError(t, err)
	assert.Equal(t, 62.5, updated.StockPrice)

	_, err = svc.UpdatePrice(context.Background(), created.CompanyID, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.UpdatePrice(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}
