package protocol

import (
	"fmt"
)

// PrioConfig holds the parameters a verification server is started with.
type PrioConfig struct {
	// Dimension is the number of data elements in every client submission.
	Dimension int `json:"dimension" yaml:"dimension"`

	// Role selects how shares are decoded, "first" or "other".
	Role string `json:"role" yaml:"role"`

	// Workers is the number of independent verification workers.
	Workers int `json:"workers" yaml:"workers"`
}

// Validate checks the configuration and returns the parsed role.
func (c *PrioConfig) Validate() (Role, error) {
	if err := checkDimension(c.Dimension); err != nil {
		return nil, err
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	}
	return ParseRole(c.Role)
}
