package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"OMC_ADMIN", RoleOMCAdmin, true},
		{"STATION_MANAGER", RoleStationManager, true},
		{"PUMP_ATTENDANT", RolePumpAttendant, true},
		{"DRIVER", RoleDriver, true},
		{"pump_attendant", "", false},
		{"ADMIN", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseTokenStatus(t *testing.T) {
	if st, ok := ParseTokenStatus("UNUSED"); !ok || st != TokenUnused {
		t.Fatalf("ParseTokenStatus(UNUSED) = (%q, %v)", st, ok)
	}
	if st, ok := ParseTokenStatus("USED"); !ok || st != TokenUsed {
		t.Fatalf("ParseTokenStatus(USED) = (%q, %v)", st, ok)
	}
	if _, ok := ParseTokenStatus("REDEEMED"); ok {
		t.Fatal("ParseTokenStatus(REDEEMED) should not parse")
	}
}
