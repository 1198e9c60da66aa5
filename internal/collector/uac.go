package collector

// userAccountControl bit flags this collector surfaces as BloodHound user
// properties. Adapted from the teacher's exact-match
// ParseUserAccountControl (analyze/uac.go) into a proper bitwise
// decomposition: the teacher's switch only recognized a handful of whole
// UAC values, which misses every real-world account since UAC is a
// bitfield, not an enum.
const (
	uacAccountDisable       = 0x0002
	uacPasswordNotRequired  = 0x0020
	uacDontExpirePassword   = 0x10000
	uacSmartcardRequired    = 0x40000
	uacTrustedForDelegation = 0x80000
	uacNotDelegated         = 0x100000
	uacDontRequirePreauth   = 0x400000
)

// uacProperties decodes a userAccountControl value into the subset of
// named flags BloodHound's User node cares about.
func uacProperties(uac uint32) map[string]any {
	return map[string]any{
		"enabled":                 uac&uacAccountDisable == 0,
		"passwordnotreqd":         uac&uacPasswordNotRequired != 0,
		"pwdneverexpires":         uac&uacDontExpirePassword != 0,
		"smartcardrequired":       uac&uacSmartcardRequired != 0,
		"unconstraineddelegation": uac&uacTrustedForDelegation != 0,
		"sensitive":               uac&uacNotDelegated != 0,
		"dontreqpreauth":          uac&uacDontRequirePreauth != 0,
	}
}
