// Package scoring computes comparative performance metrics for the whole
// user cohort: shares-weighted ESG average, portfolio value, and sector
// diversification via normalized Shannon entropy, each rescaled against the
// cohort maximum and combined into a weighted final score.
package scoring

import (
	"math"

	"greenvest-backend/internal/domain"

	"github.com/google/uuid"
)

// Final score weights.
const (
	weightValue  = 0.4
	weightESG    = 0.4
	weightSector = 0.2
)

// CohortUser is the input the engine needs for one user.
type CohortUser struct {
	UserID      uuid.UUID
	CashBalance float64
	Holdings    []domain.Holding
}

// Metrics is the per-user settlement result.
type Metrics struct {
	UserID                uuid.UUID        `json:"user_id"`
	AvgESGScore           float64          `json:"avg_esg_score"`
	PortfolioValue        float64          `json:"portfolio_value"`
	NormalizedValue       float64          `json:"normalized_value"`
	NormalizedESG         float64          `json:"normalized_esg"`
	SectorScore           float64          `json:"sector_score"`
	NormalizedSectorScore float64          `json:"normalized_sector_score"`
	FinalScore            float64          `json:"final_score"`
	SectorDistribution    map[string]int64 `json:"sector_distribution"`
}

// ComputeRaw computes one user's raw metrics against the current company
// table. Holdings referencing unknown companies are skipped.
func ComputeRaw(u CohortUser, companies map[uuid.UUID]domain.Company) Metrics {
	m := Metrics{
		UserID:             u.UserID,
		PortfolioValue:     u.CashBalance,
		SectorDistribution: make(map[string]int64),
	}

	var weightedESG float64
	var totalShares int64

	for _, h := range u.Holdings {
		co, ok := companies[h.CompanyID]
		if !ok {
			continue
		}
		// ESG stored on the 1-10 scale; weight in percentage terms.
		esgPct := co.ESGScore / domain.ESGScoreMax * 100
		weightedESG += float64(h.Shares) * esgPct
		totalShares += h.Shares

		m.PortfolioValue += float64(h.Shares) * co.StockPrice
		m.SectorDistribution[co.Sector] += h.Shares
	}

	if totalShares > 0 {
		m.AvgESGScore = weightedESG / float64(totalShares)
	}
	m.SectorScore = sectorEntropyScore(m.SectorDistribution, totalShares)
	return m
}

// sectorEntropyScore is the normalized Shannon entropy of the sector
// distribution, scaled to [0,100]. One sector (or no holdings) scores 0;
// an even split across N sectors scores 100.
func sectorEntropyScore(dist map[string]int64, totalShares int64) float64 {
	sectorCount := len(dist)
	if totalShares <= 0 || sectorCount == 0 {
		return 0
	}
	maxEntropy := 1.0
	if sectorCount > 1 {
		maxEntropy = math.Log(float64(sectorCount))
	}
	var entropy float64
	for _, shares := range dist {
		p := float64(shares) / float64(totalShares)
		entropy -= p * math.Log(p)
	}
	return entropy / maxEntropy * 100
}

// SettleCohort computes metrics for every user. All raw metrics are computed
// first; normalization maxima are taken from those fresh values only, never
// from previously persisted scores. Deterministic given identical inputs.
func SettleCohort(users []CohortUser, companies []domain.Company) []Metrics {
	byID := make(map[uuid.UUID]domain.Company, len(companies))
	for _, co := range companies {
		byID[co.CompanyID] = co
	}

	results := make([]Metrics, len(users))
	var maxValue, maxESG, maxSector float64
	for i, u := range users {
		results[i] = ComputeRaw(u, byID)
		maxValue = math.Max(maxValue, results[i].PortfolioValue)
		maxESG = math.Max(maxESG, results[i].AvgESGScore)
		maxSector = math.Max(maxSector, results[i].SectorScore)
	}

	for i := range results {
		results[i].NormalizedValue = normalize(results[i].PortfolioValue, maxValue)
		results[i].NormalizedESG = normalize(results[i].AvgESGScore, maxESG)
		results[i].NormalizedSectorScore = normalize(results[i].SectorScore, maxSector)
		results[i].FinalScore = weightValue*results[i].NormalizedValue +
			weightESG*results[i].NormalizedESG +
			weightSector*results[i].NormalizedSectorScore
	}
	return results
}

func normalize(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return value / max * 100
}
