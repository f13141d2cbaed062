package core

// EvalConfig is the evaluation context assembled from EvalOption values.
// Multi-round systems use PrevGains to subtract seats already won and
// MaxSeats to cap a candidate's total entitlement (previous gains included).
// The district-keyed variants serve constituency-level composites.
type EvalConfig struct {
	PrevGains map[Candidate]int
	MaxSeats  map[Candidate]int

	DistrictPrevGains map[District]map[Candidate]int
	DistrictMaxSeats  map[District]map[Candidate]int
}

// EvalOption mutates an EvalConfig. Options are passed through composite
// evaluators to the sub-evaluators that understand them.
type EvalOption func(*EvalConfig)

// NewEvalConfig folds options into a config with empty defaults.
func NewEvalConfig(opts ...EvalOption) EvalConfig {
	var cfg EvalConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPrevGains supplies seats gained by candidates in previous rounds.
func WithPrevGains(gains map[Candidate]int) EvalOption {
	return func(cfg *EvalConfig) { cfg.PrevGains = gains }
}

// WithMaxSeats supplies per-candidate caps on total seats (previous gains
// included).
func WithMaxSeats(caps map[Candidate]int) EvalOption {
	return func(cfg *EvalConfig) { cfg.MaxSeats = caps }
}

// WithDistrictPrevGains supplies previous gains keyed by constituency.
func WithDistrictPrevGains(gains map[District]map[Candidate]int) EvalOption {
	return func(cfg *EvalConfig) { cfg.DistrictPrevGains = gains }
}

// WithDistrictMaxSeats supplies seat caps keyed by constituency.
func WithDistrictMaxSeats(caps map[District]map[Candidate]int) EvalOption {
	return func(cfg *EvalConfig) { cfg.DistrictMaxSeats = caps }
}

// PrevGain returns the seats already gained by cand, zero when absent.
func (c EvalConfig) PrevGain(cand Candidate) int { return c.PrevGains[cand] }

// MaxSeat returns the seat cap for cand and whether one is configured.
func (c EvalConfig) MaxSeat(cand Candidate) (int, bool) {
	cap, ok := c.MaxSeats[cand]
	return cap, ok
}

// Options re-emits the config as options for passthrough to children.
func (c EvalConfig) Options() []EvalOption {
	var opts []EvalOption
	if c.PrevGains != nil {
		opts = append(opts, WithPrevGains(c.PrevGains))
	}
	if c.MaxSeats != nil {
		opts = append(opts, WithMaxSeats(c.MaxSeats))
	}
	if c.DistrictPrevGains != nil {
		opts = append(opts, WithDistrictPrevGains(c.DistrictPrevGains))
	}
	if c.DistrictMaxSeats != nil {
		opts = append(opts, WithDistrictMaxSeats(c.DistrictMaxSeats))
	}
	return opts
}
