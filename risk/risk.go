// Package risk implements the placeholder lending rule.
//
// The rule is fixed: approve when the loan-to-value ratio is strictly below
// MaxLTV and the credit score is strictly above MinCreditScore. It is not a
// general risk engine.
package risk

import (
	"fmt"
	"math"

	"xdao.co/lendingtask/compliance"
	"xdao.co/lendingtask/model"
)

// FixedTimestamp is stamped on every result. It is a static value kept for
// reproducible outputs, not the time of computation.
const FixedTimestamp int64 = 1706260000

const (
	DefaultMaxLTV         = 0.80
	DefaultMinCreditScore = 700
)

type Rules struct {
	MaxLTV         float64
	MinCreditScore float64
	Timestamp      int64
	Mode           compliance.Mode
}

func DefaultRules() Rules {
	return Rules{
		MaxLTV:         DefaultMaxLTV,
		MinCreditScore: DefaultMinCreditScore,
		Timestamp:      FixedTimestamp,
		Mode:           compliance.Strict,
	}
}

// LTV returns loanAmount / collateralValue.
func LTV(data model.PrivateData) (float64, error) {
	if data.CollateralValue == 0 {
		return 0, model.NewError(model.KindValidation, "TASK-VAL-001", "collateralValue must be nonzero")
	}
	ltv := data.LoanAmount / data.CollateralValue
	if math.IsNaN(ltv) || math.IsInf(ltv, 0) {
		return 0, model.NewError(model.KindValidation, "TASK-VAL-004", "loan-to-value ratio is not finite")
	}
	return ltv, nil
}

// Evaluate applies rules to data. It has no side effects.
func Evaluate(data model.PrivateData, rules Rules) (model.RiskResult, error) {
	if rules.Mode == compliance.Strict {
		if err := checkNonNegative(data); err != nil {
			return model.RiskResult{}, err
		}
	}

	ltv, err := LTV(data)
	if err != nil {
		return model.RiskResult{}, err
	}

	scaled := ltv * 100
	if scaled >= math.MaxInt64 || scaled <= math.MinInt64 {
		return model.RiskResult{}, model.NewError(model.KindValidation, "TASK-VAL-004",
			fmt.Sprintf("loan-to-value ratio %g is out of range", ltv))
	}

	return model.RiskResult{
		Approved: ltv < rules.MaxLTV && data.CreditScore > rules.MinCreditScore,
		// Conversion truncates toward zero.
		RiskScore: int(scaled),
		Timestamp: rules.Timestamp,
	}, nil
}

func checkNonNegative(data model.PrivateData) error {
	switch {
	case data.LoanAmount < 0:
		return model.NewError(model.KindValidation, "TASK-VAL-002", "loanAmount must not be negative")
	case data.CollateralValue < 0:
		return model.NewError(model.KindValidation, "TASK-VAL-003", "collateralValue must not be negative")
	case data.CreditScore < 0:
		return model.NewError(model.KindValidation, "TASK-VAL-005", "creditScore must not be negative")
	}
	return nil
}
