package money

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatter_English(t *testing.T) {
	f := NewFormatter(language.English)

	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{"zero", 0, "$0"},
		{"small", 999, "$999"},
		{"grouped", 1234567, "$1,234,567"},
		{"negative", -15000, "-$15,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.amount))
		})
	}
}

func TestFormatCOP(t *testing.T) {
	out := FormatCOP(253000)
	assert.True(t, strings.HasPrefix(out, "$"), "got %q", out)
	assert.Contains(t, out, "253")
	assert.NotContains(t, out, ",00")
}
