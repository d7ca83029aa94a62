package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "delimiters", input: "ZN-T_SP", want: []string{"ZN", "T", "SP"}},
		{name: "period and space", input: "AHU.1 SA TEMP", want: []string{"AHU", "1", "SA", "TEMP"}},
		{name: "letter digit boundary", input: "VAV101", want: []string{"VAV", "101"}},
		{name: "digit letter boundary", input: "1st", want: []string{"1", "st"}},
		{name: "camel case", input: "zoneTempSetpoint", want: []string{"zone", "Temp", "Setpoint"}},
		{name: "upper run stays whole", input: "DAT", want: []string{"DAT"}},
		{name: "pure digits", input: "12345", want: []string{"12345"}},
		{name: "mixed", input: "VAV-2.DmprPos", want: []string{"VAV", "2", "Dmpr", "Pos"}},
		{name: "other punctuation", input: "RTU/1:OA(DMPR)", want: []string{"RTU", "1", "OA", "DMPR"}},
		{name: "repeated delimiters", input: "__SA--T__", want: []string{"SA", "T"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Tokenize(tc.input))
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	tokens := Tokenize("")
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)

	assert.Empty(t, Tokenize(" -_. "))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("101"))
	assert.False(t, IsNumeric("T1"))
	assert.False(t, IsNumeric(""))
}
