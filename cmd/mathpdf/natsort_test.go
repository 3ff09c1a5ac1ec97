package main

import (
	"strings"
	"testing"
)

func TestSortNatural(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want string
	}{
		{name: "digit runs compare numerically", in: []string{"ch10.md", "ch2.md", "ch1.md"}, want: "ch1.md,ch2.md,ch10.md"},
		{name: "leading zeros sort after bare digits", in: []string{"01.md", "1.md", "2.md"}, want: "1.md,01.md,2.md"},
		{name: "text runs are lexicographic", in: []string{"b.md", "a10.md", "a9.md"}, want: "a9.md,a10.md,b.md"},
		{name: "prefix sorts first", in: []string{"part1/x.md", "part1.md"}, want: "part1.md,part1/x.md"},
		{name: "large numbers", in: []string{"v100000000000000000000.md", "v99.md"}, want: "v99.md,v100000000000000000000.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := append([]string(nil), tt.in...)
			sortNatural(got)
			if strings.Join(got, ",") != tt.want {
				t.Errorf("sortNatural() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestCompareNatural_Antisymmetric(t *testing.T) {
	t.Parallel()

	names := []string{"a", "a1", "a01", "a2", "a10", "b", "1", "01", "", "x.md"}
	for _, a := range names {
		for _, b := range names {
			ab, ba := compareNatural(a, b), compareNatural(b, a)
			if (ab < 0) != (ba > 0) || (ab == 0) != (ba == 0) {
				t.Errorf("compareNatural(%q, %q) = %d but reverse = %d", a, b, ab, ba)
			}
		}
	}
}
