package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSalary(t *testing.T) {
	cases := []struct {
		level  Level
		shifts int
		want   int64
	}{
		{Level1, 0, 0},
		{Level1, 5, 550000},
		{Level2, 10, 1250000},
		{Level2, 8, 1000000},
		{Level3, 3, 450000},
		{Level(4), 10, 0},
		{Level1, -2, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CalculateSalary(c.level, c.shifts), "level=%d shifts=%d", c.level, c.shifts)
	}
}

func TestCalculateSalary_MatchesRateForAllLevels(t *testing.T) {
	for _, level := range []Level{Level1, Level2, Level3} {
		rate, ok := level.Rate()
		require.True(t, ok)
		for shifts := 0; shifts <= 31; shifts++ {
			assert.Equal(t, rate*int64(shifts), CalculateSalary(level, shifts))
		}
	}
}

func TestEmployee_RecomputeAndReset(t *testing.T) {
	emp := Employee{Name: "Ann", Gender: Female, Level: Level2, Shifts: 10, Salary: 1}
	emp.RecomputeSalary()
	assert.Equal(t, int64(1250000), emp.Salary)

	emp.ResetPeriod()
	assert.Zero(t, emp.Shifts)
	assert.Zero(t, emp.Salary)
}

func TestNextEmployeeCode(t *testing.T) {
	cases := map[string]string{
		"":      "E0001",
		"E0000": "E0001",
		"E0001": "E0002",
		"E0099": "E0100",
		"E9998": "E9999",
	}
	for last, want := range cases {
		got, err := NextEmployeeCode(last)
		require.NoError(t, err, last)
		assert.Equal(t, want, got, last)
	}
}

func TestNextEmployeeCode_Errors(t *testing.T) {
	_, err := NextEmployeeCode("E9999")
	assert.ErrorIs(t, err, ErrEmployeeCodeExhausted)

	for _, bad := range []string{"X0001", "E01", "Eabcd", "E-001"} {
		_, err := NextEmployeeCode(bad)
		assert.ErrorIs(t, err, ErrInvalidEmployeeCode, bad)
	}
}

func TestLevel_Valid(t *testing.T) {
	for _, l := range []Level{Level1, Level2, Level3} {
		assert.True(t, l.Valid(), "level %d", l)
	}
	for _, l := range []Level{0, 4, -1} {
		assert.False(t, l.Valid(), "level %d", l)
	}
}
