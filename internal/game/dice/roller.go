package dice

import "go.uber.org/zap"

// Roller wraps a Source and logs every roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source exposes the underlying randomness provider.
func (r *Roller) Source() Source { return r.src }

// Percent rolls a percentage check against chance and logs it with the
// given label.
func (r *Roller) Percent(label string, chance int) bool {
	roll := r.src.Intn(100)
	ok := roll < chance
	r.logger.Debug("percent roll",
		zap.String("label", label),
		zap.Int("roll", roll),
		zap.Int("chance", chance),
		zap.Bool("success", ok),
	)
	return ok
}

// RollExpr parses and rolls expr, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	result := Roll(e, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}
