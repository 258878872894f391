package find

import (
	"strings"
	"testing"
)

func Test_Prologix(t *testing.T) {
	cases := []struct {
		name string
		ut   Usbtty
		want bool
	}{
		{"by product string", Usbtty{Prod: "Prologix GPIB-USB Controller"}, true},
		{"by ftdi ids", Usbtty{IDv: "0403", Mfg: "FTDI"}, true},
		{"arduino", Usbtty{IDv: "2341", Mfg: "Arduino", Prod: "Uno"}, false},
		{"empty", Usbtty{}, false},
	}
	for _, tc := range cases {
		if got := Prologix(&tc.ut); got != tc.want {
			t.Errorf("%s: Prologix = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func Test_SerialFilter(t *testing.T) {
	f := SerialFilter("A603UX94")
	if !f(&Usbtty{Serial: "A603UX94"}) {
		t.Error("matching serial rejected")
	}
	if f(&Usbtty{Serial: "other"}) {
		t.Error("non-matching serial accepted")
	}
}

func Test_String(t *testing.T) {
	ut := Usbtty{Dev: "ttyUSB0", IDp: "6001", IDv: "0403", Mfg: "FTDI", Prod: "FT232R", Serial: "A603UX94"}
	s := ut.String()
	for _, part := range []string{"ttyUSB0", "6001", "0403", "FTDI", "A603UX94"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q missing %q", s, part)
		}
	}
}
