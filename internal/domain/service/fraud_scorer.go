package service

import (
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

var fraudTiers = MustTierTable(valueobject.HigherIsWorse, []TierBound{
	{Bound: 0, Name: "MINIMAL", Action: "APPROVE"},
	{Bound: 0.3, Name: "LOW", Action: "MONITOR"},
	{Bound: 0.5, Name: "MEDIUM", Action: "REVIEW"},
	{Bound: 0.8, Name: "HIGH", Action: "BLOCK"},
})

var fraudSchema = MustSchema([]FieldSpec{
	{Name: "amount", Transform: TransformIdentity, Path: "amount", Default: 0},
	{Name: "amount_log", Transform: TransformLog1p, Path: "amount", Default: 0, Fallback: 0},
	{Name: "account_age_days", Transform: TransformDaysSince, Path: "account_created_date", Default: 0, Fallback: 0},
	{Name: "daily_transaction_count", Transform: TransformIdentity, Path: "daily_transaction_count", Default: 1},
})

// FraudFeatures is the feature vector extracted from one transaction.
type FraudFeatures struct {
	Amount           float64
	AmountLog        float64
	Hour             int
	DayOfWeek        int
	IsWeekend        bool
	IsNight          bool
	AccountAgeDays   float64
	IsWithdrawal     bool
	IsTransfer       bool
	IsOnline         bool
	IsForeignCountry bool
	DailyCount       float64
	DailyAmount      float64
}

const fraudFeatureCount = 13

// FraudAnalysis is the outcome of scoring one transaction.
type FraudAnalysis struct {
	TransactionID     string
	RiskScore         float64
	RiskLevel         string
	RecommendedAction string
	Indicators        []string
	FeaturesAnalyzed  int
	ComputedAt        time.Time
}

// BatchFraudAnalysis aggregates per-transaction analyses for one batch.
type BatchFraudAnalysis struct {
	BatchID           string
	TotalTransactions int
	CountsByLevel     map[string]int
	Results           []FraudAnalysis
	ComputedAt        time.Time
}

// FraudScorer scores transactions for fraud risk with an additive rule
// set over the extracted feature vector. Rule weights accumulate and
// the total is capped at 1.
type FraudScorer struct {
	extractor *FactorExtractor
}

// NewFraudScorer creates a new FraudScorer.
func NewFraudScorer(extractor *FactorExtractor) *FraudScorer {
	return &FraudScorer{extractor: extractor}
}

// ExtractFeatures builds the feature vector for one transaction. A
// missing timestamp falls back to now, and a missing daily amount
// falls back to the transaction's own amount.
func (s *FraudScorer) ExtractFeatures(rec Record, now time.Time) FraudFeatures {
	extracted := s.extractor.Extract(rec, fraudSchema, now)
	in := indexFactors(extracted)

	txTime := now
	if raw, ok := rec.Lookup("timestamp"); ok {
		if ts, err := timeValue(raw); err == nil {
			txTime = ts
		}
	}

	f := FraudFeatures{
		Amount:         in["amount"].Value,
		AmountLog:      in["amount_log"].Value,
		Hour:           txTime.Hour(),
		DayOfWeek:      int(txTime.Weekday()),
		AccountAgeDays: in["account_age_days"].Value,
		DailyCount:     in["daily_transaction_count"].Value,
		DailyAmount:    in["amount"].Value,
	}
	f.IsWeekend = txTime.Weekday() == time.Saturday || txTime.Weekday() == time.Sunday
	f.IsNight = f.Hour < 6 || f.Hour > 22

	txType, _ := rec.Lookup("transaction_type")
	f.IsWithdrawal = txType == "WITHDRAWAL"
	f.IsTransfer = txType == "TRANSFER"

	channel, _ := rec.Lookup("channel")
	f.IsOnline = channel == "ONLINE"

	home := "US"
	if raw, ok := rec.Lookup("home_country"); ok {
		if str, isStr := raw.(string); isStr {
			home = str
		}
	}
	if raw, ok := rec.Lookup("country"); ok {
		f.IsForeignCountry = raw != home
	}

	if v, ok := numericAt(rec, "daily_transaction_amount"); ok {
		f.DailyAmount = v
	}
	return f
}

// RiskScore applies the additive rule set to a feature vector.
func (s *FraudScorer) RiskScore(f FraudFeatures) float64 {
	score := 0.0

	switch {
	case f.Amount > 10000:
		score += 0.3
	case f.Amount > 5000:
		score += 0.2
	case f.Amount > 1000:
		score += 0.1
	}

	if f.IsNight {
		score += 0.15
	}
	if f.IsWeekend {
		score += 0.1
	}
	if f.DailyCount > 10 {
		score += 0.25
	}
	if f.DailyAmount > 20000 {
		score += 0.3
	}
	if f.IsForeignCountry {
		score += 0.2
	}
	if f.IsOnline {
		score += 0.05
	}
	if f.AccountAgeDays < 30 {
		score += 0.15
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Indicators reports the human-readable signals behind a score.
func (s *FraudScorer) Indicators(f FraudFeatures, score float64) []string {
	var indicators []string
	if f.Amount > 10000 {
		indicators = append(indicators, "High transaction amount")
	}
	if f.IsNight {
		indicators = append(indicators, "Transaction during unusual hours")
	}
	if f.DailyCount > 10 {
		indicators = append(indicators, "High transaction frequency")
	}
	if f.IsForeignCountry {
		indicators = append(indicators, "Transaction from foreign country")
	}
	if f.AccountAgeDays < 30 {
		indicators = append(indicators, "New account")
	}
	if score > 0.7 {
		indicators = append(indicators, "Multiple risk factors detected")
	}
	return indicators
}

// Analyze scores one transaction record.
func (s *FraudScorer) Analyze(rec Record, now time.Time) (FraudAnalysis, error) {
	if rec == nil {
		return FraudAnalysis{}, fmt.Errorf("transaction record is required")
	}

	features := s.ExtractFeatures(rec, now)
	score := s.RiskScore(features)
	tier, action := fraudTiers.Map(score)

	txID := ""
	if raw, ok := rec.Lookup("transaction_id"); ok {
		if str, isStr := raw.(string); isStr {
			txID = str
		}
	}

	return FraudAnalysis{
		TransactionID:     txID,
		RiskScore:         round3(score),
		RiskLevel:         tier.Name(),
		RecommendedAction: action,
		Indicators:        s.Indicators(features, score),
		FeaturesAnalyzed:  fraudFeatureCount,
		ComputedAt:        now,
	}, nil
}

// AnalyzeBatch scores a set of transactions with one shared timestamp.
// Records are isolated: a nil entry contributes an empty analysis
// instead of failing the batch.
func (s *FraudScorer) AnalyzeBatch(batchID string, records []Record, now time.Time) (BatchFraudAnalysis, error) {
	if len(records) == 0 {
		return BatchFraudAnalysis{}, fmt.Errorf("at least one transaction is required")
	}
	if batchID == "" {
		batchID = "batch_" + now.Format("20060102_150405")
	}

	counts := make(map[string]int, 4)
	results := make([]FraudAnalysis, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			rec = Record{}
		}
		analysis, err := s.Analyze(rec, now)
		if err != nil {
			continue
		}
		counts[analysis.RiskLevel]++
		results = append(results, analysis)
	}

	return BatchFraudAnalysis{
		BatchID:           batchID,
		TotalTransactions: len(records),
		CountsByLevel:     counts,
		Results:           results,
		ComputedAt:        now,
	}, nil
}
