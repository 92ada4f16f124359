package party

import "testing"

func TestOther(t *testing.T) {
	if Brand.Other() != Creator || Creator.Other() != Brand {
		t.Fatalf("brand and creator should be each other's counterparty")
	}
	if Role("admin").Other() != "" {
		t.Fatalf("invalid role has no counterparty")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"brand", Brand, true},
		{" Creator ", Creator, true},
		{"admin", Role("admin"), false},
		{"", Role(""), false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseRole(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
