package beam

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config bounds a search. See DefaultConfig for the defaults.
type Config struct {
	// BeamWidth is k, the number of hypotheses kept after each prune.
	BeamWidth int `yaml:"beam_width" json:"beam_width" validate:"gte=1"`
	// BranchingFactor is b, the continuations considered per hypothesis.
	BranchingFactor int `yaml:"branching_factor" json:"branching_factor" validate:"gte=1"`
	// MaxSteps is the step budget T.
	MaxSteps int `yaml:"max_steps" json:"max_steps" validate:"gte=1"`
	// MaxCompleted stops the search once this many hypotheses completed.
	// Zero means BeamWidth.
	MaxCompleted int `yaml:"max_completed" json:"max_completed" validate:"gte=0"`

	EndToken        string  `yaml:"end_token" json:"end_token"`
	Alpha           float64 `yaml:"alpha" json:"alpha" validate:"gte=0"`
	Penalty         Penalty `yaml:"penalty" json:"penalty" validate:"omitempty,oneof=power gnmt"`
	AllowDuplicates bool    `yaml:"allow_duplicates" json:"allow_duplicates"`
	// MaxPerParent caps surviving children per hypothesis; zero is no cap.
	MaxPerParent int `yaml:"max_per_parent" json:"max_per_parent" validate:"gte=0"`
}

// DefaultConfig mirrors the interactive demos: two beams, two branches.
func DefaultConfig() Config {
	return Config{
		BeamWidth:       2,
		BranchingFactor: 2,
		MaxSteps:        8,
		EndToken:        DefaultEndToken,
		Alpha:           1.0,
		Penalty:         PenaltyPower,
	}
}

// Validate rejects configurations the search cannot run with. The returned
// error matches ErrInvalidConfiguration.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newConfigError(err.Error())
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return newConfigError(problems...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func (c Config) withDefaults() Config {
	if c.EndToken == "" {
		c.EndToken = DefaultEndToken
	}
	if c.Penalty == "" {
		c.Penalty = PenaltyPower
	}
	if c.MaxCompleted == 0 {
		c.MaxCompleted = c.BeamWidth
	}
	return c
}

func (c Config) stepOptions() StepOptions {
	return StepOptions{
		EndToken:        c.EndToken,
		AllowDuplicates: c.AllowDuplicates,
		MaxPerParent:    c.MaxPerParent,
	}
}
