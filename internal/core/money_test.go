package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
		fails bool
	}{
		{name: "plain integer", in: "200", want: "200"},
		{name: "dot decimal", in: "1234.56", want: "1234.56"},
		{name: "comma decimal", in: "12,34", want: "12.34"},
		{name: "ptbr thousands", in: "1.234,56", want: "1234.56"},
		{name: "ptbr large", in: "1.234.567,89", want: "1234567.89"},
		{name: "dot-only thousands", in: "1.000", want: "1000"},
		{name: "dot-only thousands large", in: "1.234.567", want: "1234567"},
		{name: "dot-only short group", in: "1.234", want: "1234"},
		{name: "uneven dot groups stay decimal", in: "10.5", want: "10.5"},
		{name: "currency prefix", in: "R$ 99,90", want: "99.9"},
		{name: "negative becomes magnitude", in: "-50,25", want: "50.25"},
		{name: "surrounding spaces", in: "  10,00  ", want: "10"},
		{name: "empty", in: "", fails: true},
		{name: "garbage", in: "abc", fails: true},
		{name: "double comma", in: "1,2,3", fails: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.fails {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %s, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error: %v", tc.in, err)
			}
			want := decimal.RequireFromString(tc.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, want)
			}
		})
	}
}

func TestParseAmountNeverNegative(t *testing.T) {
	for _, in := range []string{"-1", "-1.234,56", "-0,01", "R$ -3"} {
		got, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", in, err)
		}
		if got.IsNegative() {
			t.Errorf("ParseAmount(%q) = %s, want non-negative", in, got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"1000.5", "1.000,50"},
		{"1234567.89", "1.234.567,89"},
		{"-42.1", "-42,10"},
		{"999", "999,00"},
	}
	for _, tc := range cases {
		got := FormatAmount(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
