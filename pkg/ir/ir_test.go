package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegString(t *testing.T) {
	cases := []struct {
		name string
		reg  Reg
		want string
	}{
		{"anonymous", Reg{N: 3}, "%.3"},
		{"named var slot", Reg{Prefix: "var", N: 6}, "%var.6"},
		{"named array slot", Reg{Prefix: "arr", N: 6}, "%arr.6"},
		{"dynamic array base", Reg{Prefix: "dynarr", N: 7}, "%dynarr.7"},
		{"fixed dyn-save slot", Reg{Prefix: "dyn", N: -1}, "%dyn.-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.reg.String())
		})
	}
}

func TestGlobalString(t *testing.T) {
	require.Equal(t, "@main", Global{Name: "main"}.String())
}

func TestIntConstString(t *testing.T) {
	require.Equal(t, "42", IntConst{Value: 42}.String())
	require.Equal(t, "-7", IntConst{Value: -7}.String())
}

func TestFloatConstString(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{1.0, "1.0"},
		{0.0, "0.0"},
		{3.5, "3.5"},
		{-2.25, "-2.25"},
	}
	for _, tc := range cases {
		got := FloatConst{Value: tc.v}.String()
		require.Equal(t, tc.want, got, "FloatConst{%v}", tc.v)
	}
}

func TestNullConstString(t *testing.T) {
	require.Equal(t, "null", NullConst{}.String())
}

func TestLabelString(t *testing.T) {
	require.Equal(t, "%label12", Label{N: 12}.String())
}

func TestStringConstString(t *testing.T) {
	// "hi" has length 2; the printed array shape counts the NUL
	// terminator the original spec's string pool always reserves.
	got := StringConst{Index: 3, Length: 2}.String()
	require.Equal(t, "getelementptr inbounds ([3 x i8], [3 x i8]* @.str3, i32 0, i32 0)", got)
}
