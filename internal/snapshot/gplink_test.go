package snapshot

import (
	"reflect"
	"testing"
)

func TestParseGPLinksEnforcedAndNot(t *testing.T) {
	in := "[LDAP://cn={31B2F340-016D-11D2-945F-00C04FB984F9};0][LDAP://cn={6AC1786C-016F-11D2-945F-00C04fB984F9};2]"
	want := []GPLink{
		{GUID: "31B2F340-016D-11D2-945F-00C04FB984F9", IsEnforced: false},
		{GUID: "6AC1786C-016F-11D2-945F-00C04FB984F9", IsEnforced: true},
	}
	got := ParseGPLinks(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseGPLinks() = %+v, want %+v", got, want)
	}
}

func TestParseGPLinksAbsentSuffixMeansNotEnforced(t *testing.T) {
	in := "[LDAP://cn={31B2F340-016D-11D2-945F-00C04FB984F9}]"
	got := ParseGPLinks(in)
	if len(got) != 1 || got[0].IsEnforced {
		t.Errorf("ParseGPLinks() = %+v, want one not-enforced entry", got)
	}
}

func TestParseGPLinksMalformedYieldsNil(t *testing.T) {
	cases := []string{
		"",
		"not bracketed at all",
		"[LDAP://cn={missing-close-brace]",
		"[LDAP://cn={GUID};9]",
		"[something-else]",
	}
	for _, in := range cases {
		if got := ParseGPLinks(in); got != nil {
			t.Errorf("ParseGPLinks(%q) = %+v, want nil", in, got)
		}
	}
}
