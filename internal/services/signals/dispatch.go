package signals

import (
	"YTM4A/internal/domain/models"
	domsvc "YTM4A/internal/domain/service"
)

// Dispatcher routes a feature set to the rule registered for its category.
type Dispatcher struct {
	rules map[models.Category]domsvc.SignalRule
}

func NewDispatcher(rules ...domsvc.SignalRule) *Dispatcher {
	d := &Dispatcher{rules: make(map[models.Category]domsvc.SignalRule, len(rules))}
	for _, r := range rules {
		d.rules[r.Category()] = r
	}
	return d
}

// Default registers the rule for every known category.
func Default() *Dispatcher {
	return NewDispatcher(
		NewMarketRule(models.CategoryFinance),
		NewMarketRule(models.CategoryEconomics),
		AIRule{},
		GeopoliticsRule{},
	)
}

// Dispatch computes the signal for f.Category. Categories without a rule
// fail with UnknownCategory.
func (d *Dispatcher) Dispatch(f models.Features) (models.Signal, error) {
	r, ok := d.rules[f.Category]
	if !ok {
		return models.Signal{}, models.NewError(models.KindUnknownCategory, "Unknown category: %s", f.Category)
	}
	s := r.Compute(f)
	s.Confidence = clamp(s.Confidence)
	return s, nil
}
