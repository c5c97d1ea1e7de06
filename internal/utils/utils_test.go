package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "terca-feira", FoldKey("  Terça-Feira "))
	assert.Equal(t, "sabado", FoldKey("SÁBADO"))
	assert.Equal(t, "", FoldKey("   "))
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
		ok   bool
	}{
		{"Segunda-feira", time.Monday, true},
		{"terca-feira", time.Tuesday, true},
		{"Sábado", time.Saturday, true},
		{"domingo", time.Sunday, true},
		{"Monday", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseWeekday(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
	assert.True(t, SameWeekday("Quarta-feira", "quarta-FEIRA"))
	assert.False(t, SameWeekday("Quarta-feira", "Quinta-feira"))
}

func TestDates(t *testing.T) {
	d, err := ParseDate("05-03-2024")
	require.NoError(t, err)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 5, d.Day())
	assert.Equal(t, "05-03-2024", FormatDate(d))

	_, err = ParseDate("2024-03-05")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestHHMM(t *testing.T) {
	assert.True(t, IsValidHHMM("08:30"))
	assert.False(t, IsValidHHMM("8:30"))
	assert.False(t, IsValidHHMM("24:00"))
	assert.Equal(t, 510, HHMMToMinutes("08:30"))
	assert.Equal(t, -1, HHMMToMinutes("x"))
}

func TestMisc(t *testing.T) {
	assert.Equal(t, "12345678901", OnlyDigits("123.456.789-01"))
	assert.Equal(t, "ação", TrimMax(" ação física ", 4))
}
