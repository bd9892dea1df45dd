package schema

import "testing"

func TestAnonymizeIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"192.168.1.100", "192.168.XXX.XXX"},
		{"10.0.0.1", "10.0.XXX.XXX"},
		{"255.255.255.255", "255.255.XXX.XXX"},
		{"999.1.1.1", AnonymizedIP},
		{"192.168.1", AnonymizedIP},
		{"not-an-ip", AnonymizedIP},
		{"2001:db8::1", AnonymizedIP},
		{"", AnonymizedIP},
		{"user-token-abc123", AnonymizedIP},
	}

	for _, tc := range cases {
		if got := AnonymizeIP(tc.in); got != tc.want {
			t.Errorf("AnonymizeIP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
