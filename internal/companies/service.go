package companies

import (
	"context"

	"greenvest-backend/internal/domain"
	"greenvest-backend/internal/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates admin company management. Company edits are the only
// path that changes total shares in circulation.
type Service struct {
	DB  *gorm.DB
	Hub *realtime.Hub // optional
}

// CompanyInput is the create/update payload.
type CompanyInput struct {
	Name            string  `json:"name"`
	Sector          string  `json:"sector"`
	Description     string  `json:"description"`
	StockPrice      float64 `json:"stock_price"`
	ESGScore        float64 `json:"esg_score"`
	AvailableShares int64   `json:"available_shares"`
}

func (in CompanyInput) validate() error {
	if in.Name == "" || in.Sector == "" || in.Description == "" {
		return ErrMissingFields
	}
	if in.ESGScore < domain.ESGScoreMin || in.ESGScore > domain.ESGScoreMax {
		return ErrInvalidESGScore
	}
	if in.StockPrice < 0 {
		return ErrInvalidPrice
	}
	if in.AvailableShares < 0 {
		return ErrInvalidShares
	}
	return nil
}

// List returns all companies ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&companies).Error
	return companies, err
}

// Get returns one company.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	if err := s.DB.WithContext(ctx).Where("company_id = ?", id).First(&company).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

// Create adds a new company with a unique name.
func (s *Service) Create(ctx context.Context, in CompanyInput) (*domain.Company, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var company domain.Company
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Company
		err := tx.Where("name = ?", in.Name).First(&existing).Error
		if err == nil {
			return ErrNameTaken
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		company = domain.Company{
			Name:            in.Name,
			Sector:          in.Sector,
			Description:     in.Description,
			StockPrice:      in.StockPrice,
			ESGScore:        in.ESGScore,
			AvailableShares: in.AvailableShares,
		}
		return tx.Create(&company).Error
	})
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Update replaces a company's fields; renames must stay unique.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in CompanyInput) (*domain.Company, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var company domain.Company
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).First(&company).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCompanyNotFound
			}
			return err
		}

		if in.Name != company.Name {
			var existing domain.Company
			err := tx.Where("name = ?", in.Name).First(&existing).Error
			if err == nil {
				return ErrNameTaken
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
		}

		company.Name = in.Name
		company.Sector = in.Sector
		company.Description = in.Description
		company.StockPrice = in.StockPrice
		company.ESGScore = in.ESGScore
		company.AvailableShares = in.AvailableShares
		return tx.Save(&company).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(company)
	return &company, nil
}

// UpdatePrice changes just the stock price.
func (s *Service) UpdatePrice(ctx context.Context, id uuid.UUID, price float64) (*domain.Company, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	var company domain.Company
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).First(&company).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCompanyNotFound
			}
			return err
		}
		company.StockPrice = price
		return tx.Save(&company).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(company)
	return &company, nil
}

func (s *Service) publishUpdate(company domain.Company) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(realtime.EventCompanyUpdate, map[string]interface{}{
		"company_id":       company.CompanyID,
		"available_shares": company.AvailableShares,
		"stock_price":      company.StockPrice,
	})
}
