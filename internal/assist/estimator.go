// Package assist implements the assistant features layered on top of the
// claims core: payout estimation, chat replies, and claim-letter drafting.
package assist

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartinsure/claimpilot/internal/llm"
	"github.com/smartinsure/claimpilot/internal/models"
)

// Estimator produces payout estimates. The amount is always computed by the
// deterministic heuristic; a configured LLM provider only enriches the
// narrative analysis.
type Estimator struct {
	provider llm.Provider // may be nil
}

// NewEstimator creates an estimator. Provider may be nil for offline mode.
func NewEstimator(provider llm.Provider) *Estimator {
	return &Estimator{provider: provider}
}

// Payout coverage rates and caps per claim type, in INR.
const (
	healthRate   = 0.90
	healthCap    = 500000
	accidentRate = 0.85
	accidentCap  = 1000000
	travelRate   = 0.95
	travelCap    = 200000
	defaultRate  = 0.80
)

// Estimate computes a payout estimate for the claim. Malformed or absent
// expense amounts are treated as zero.
func (e *Estimator) Estimate(ctx context.Context, record models.ClaimRecord, extractedText string) models.Estimate {
	userAmount := parseAmount(record.EstimatedExpenses)
	amount, details := heuristicEstimate(record.ClaimType, userAmount)

	est := models.Estimate{
		UserAmount: userAmount,
		Amount:     amount,
		Details:    details,
		Source:     "heuristic",
	}

	if e.provider == nil {
		return est
	}

	analysis, err := e.llmAnalysis(ctx, record, extractedText)
	if err != nil {
		log.Warn().Err(err).Msg("LLM estimate analysis failed, keeping heuristic narrative")
		return est
	}

	est.Details = analysis
	est.Source = "llm"
	return est
}

func heuristicEstimate(claimType models.ClaimType, userAmount int64) (int64, string) {
	switch claimType {
	case models.ClaimTypeHealth:
		amount := capAmount(float64(userAmount)*healthRate, healthCap)
		return amount, fmt.Sprintf(`Based on typical health insurance claims in India:

- Medical Treatment Coverage: 90%% of eligible expenses
- Room Rent Limit: As per policy terms
- Pre/Post Hospitalization: 30/60 days coverage
- Estimated Payout: Rs. %s

The estimate considers standard health insurance norms and the documents provided. Final amount depends on policy terms and medical necessity verification.`, FormatINR(amount))

	case models.ClaimTypeAccident:
		amount := capAmount(float64(userAmount)*accidentRate, accidentCap)
		return amount, fmt.Sprintf(`Based on typical motor insurance claims in India:

- Vehicle Damage Assessment: 85%% of repair costs
- Third Party Liability: As per policy limit
- Depreciation Deduction: Age-based depreciation applies
- Estimated Payout: Rs. %s

The estimate considers standard motor insurance practices and current vehicle repair costs in India.`, FormatINR(amount))

	case models.ClaimTypeTravel:
		amount := capAmount(float64(userAmount)*travelRate, travelCap)
		return amount, fmt.Sprintf(`Based on typical travel insurance claims in India:

- Baggage Loss/Delay: Up to policy limit per item
- Medical Emergency: 100%% of eligible expenses
- Trip Cancellation: Actual loss or policy limit
- Estimated Payout: Rs. %s

The estimate is based on standard travel insurance coverage and the incident details provided.`, FormatINR(amount))

	default:
		amount := int64(math.Round(float64(userAmount) * defaultRate))
		return amount, fmt.Sprintf(`General insurance claim estimate:

- Estimated Payout: Rs. %s
- Coverage typically ranges from 70-90%% of claimed amount
- Final settlement depends on policy terms and verification`, FormatINR(amount))
	}
}

func (e *Estimator) llmAnalysis(ctx context.Context, record models.ClaimRecord, extractedText string) (string, error) {
	system := "You are an experienced insurance claim analyst. Provide an estimated insurance payout in INR along with a brief justification, based on Indian insurance standards."
	user := fmt.Sprintf(`Claim Type: %s
Location: %s
Date: %s
User Estimate: Rs. %s
Description: %s
Extracted Documents: %s`,
		record.ClaimType, record.Location, record.IncidentDate,
		record.EstimatedExpenses, record.UserDescription, extractedText)

	opts := llm.DefaultCompletionOptions()
	opts.Temperature = 0.2

	response, err := e.provider.CompleteWithSystem(ctx, system, user, opts)
	if err != nil {
		return "", fmt.Errorf("estimate analysis failed: %w", err)
	}
	return strings.TrimSpace(response), nil
}

func capAmount(v, limit float64) int64 {
	return int64(math.Round(math.Min(v, limit)))
}

func parseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatINR renders an amount with Indian digit grouping (12,34,567).
func FormatINR(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		return s
	}

	head := s[:len(s)-3]
	tail := s[len(s)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
