package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with kind, dice values, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Check rolls the standard 2d10 check and logs the result.
//
// Postcondition: total == pair[0] + pair[1].
func (r *Roller) Check() (total int, pair Pair) {
	total, pair = Roll2D10(r.src)
	r.logger.Debug("dice roll",
		zap.String("kind", "2d10"),
		zap.Ints("dice", []int{pair[0], pair[1]}),
		zap.Int("total", total),
	)
	return total, pair
}

// Die rolls a single die with the given number of faces and logs the result.
//
// Precondition: faces >= 2.
func (r *Roller) Die(faces int) int {
	v := Roll1D(r.src, faces)
	r.logger.Debug("dice roll",
		zap.String("kind", "1d"),
		zap.Int("faces", faces),
		zap.Int("total", v),
	)
	return v
}
