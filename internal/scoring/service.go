package scoring

import (
	"encoding/json"

	"greenvest-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Settle recomputes and persists metrics for every user inside the caller's
// transaction. The round flip and the metric writes must commit together, so
// this takes tx rather than owning its own transaction.
func Settle(tx *gorm.DB) ([]Metrics, error) {
	var users []domain.User
	if err := tx.Preload("Holdings").Find(&users).Error; err != nil {
		return nil, err
	}
	var companies []domain.Company
	if err := tx.Find(&companies).Error; err != nil {
		return nil, err
	}

	cohort := make([]CohortUser, len(users))
	for i, u := range users {
		cohort[i] = CohortUser{
			UserID:      u.UserID,
			CashBalance: u.CashBalance,
			Holdings:    u.Holdings,
		}
	}

	results := SettleCohort(cohort, companies)
	for _, m := range results {
		distJSON, err := json.Marshal(m.SectorDistribution)
		if err != nil {
			return nil, err
		}
		err = tx.Model(&domain.User{}).
			Where("user_id = ?", m.UserID).
			Updates(map[string]interface{}{
				"avg_esg_score":           m.AvgESGScore,
				"portfolio_value":         m.PortfolioValue,
				"normalized_value":        m.NormalizedValue,
				"normalized_esg":          m.NormalizedESG,
				"sector_score":            m.SectorScore,
				"normalized_sector_score": m.NormalizedSectorScore,
				"final_score":             m.FinalScore,
				"sector_distribution":     datatypes.JSON(distJSON),
			}).Error
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// PersistedMetrics reads the metric snapshot saved by the last settlement.
// Used when a repeat end-of-round call finds the round already settled.
func PersistedMetrics(db *gorm.DB) ([]Metrics, error) {
	var users []domain.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	results := make([]Metrics, len(users))
	for i, u := range users {
		dist := make(map[string]int64)
		if len(u.SectorDistribution) > 0 {
			_ = json.Unmarshal(u.SectorDistribution, &dist)
		}
		results[i] = Metrics{
			UserID:                u.UserID,
			AvgESGScore:           u.AvgESGScore,
			PortfolioValue:        u.PortfolioValue,
			NormalizedValue:       u.NormalizedValue,
			NormalizedESG:         u.NormalizedESG,
			SectorScore:           u.SectorScore,
			NormalizedSectorScore: u.NormalizedSectorScore,
			FinalScore:            u.FinalScore,
			SectorDistribution:    dist,
		}
	}
	return results, nil
}
