package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"no departments", func(c *Config) { c.Departments = nil }, false},
		{"zero employees", func(c *Config) { c.Employees = 0 }, false},
		{"negative projects", func(c *Config) { c.Projects = -1 }, false},
		{"no roles", func(c *Config) { c.Roles = []string{} }, false},
		{"inverted salary range", func(c *Config) { c.SalaryMin, c.SalaryMax = 9000, 8000 }, false},
		{"single salary value", func(c *Config) { c.SalaryMin, c.SalaryMax = 5000, 5000 }, true},
		{"inverted budget range", func(c *Config) { c.BudgetMin = c.BudgetMax + 1 }, false},
		{"negative window", func(c *Config) { c.HireWindowYears = -1 }, false},
		{"zero min assignments", func(c *Config) { c.MinAssignments = 0 }, false},
		{"inverted assignment range", func(c *Config) { c.MinAssignments, c.MaxAssignments = 3, 2 }, false},
		{"unknown policy", func(c *Config) { c.FanOut = "maybe" }, false},
		{"clamp small pool", func(c *Config) { c.Projects = 1 }, true},
		{"strict small pool", func(c *Config) { c.Projects, c.FanOut = 2, FanOutStrict }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrConfiguration)
			}
		})
	}
}

func TestParseFanOutPolicy(t *testing.T) {
	p, err := ParseFanOutPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FanOutClamp, p)

	p, err = ParseFanOutPolicy(" STRICT ")
	require.NoError(t, err)
	assert.Equal(t, FanOutStrict, p)

	_, err = ParseFanOutPolicy("error")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAssignmentBounds(t *testing.T) {
	cfg := DefaultConfig()

	lo, hi := cfg.AssignmentBounds(10)
	assert.Equal(t, [2]int{1, 3}, [2]int{lo, hi})

	lo, hi = cfg.AssignmentBounds(2)
	assert.Equal(t, [2]int{1, 2}, [2]int{lo, hi})

	cfg.FanOut = FanOutStrict
	lo, hi = cfg.AssignmentBounds(2)
	assert.Equal(t, [2]int{1, 3}, [2]int{lo, hi})
}
