package snapshot

import "strings"

// GPLink is one parsed entry of an organizational unit's gPLink
// attribute: a linked GPO's GUID and whether the link is enforced.
type GPLink struct {
	GUID       string
	IsEnforced bool
}

// ParseGPLinks parses a gPLink attribute value of the form
// "[LDAP://cn={GUID},<rest of DN>;N][LDAP://cn={GUID},<rest of DN>;N]...".
// The "LDAP://cn=" prefix is matched case-insensitively and the DN tail
// after the GUID may be absent. N is "2" for an enforced link and "0"
// (or absent) otherwise. Any entry that does not
// match this shape makes the whole value unparsable; ParseGPLinks
// returns an empty slice rather than a partial result or an error, since
// gPLink is advisory and a malformed value is not a fatal condition.
func ParseGPLinks(gplink string) []GPLink {
	var links []GPLink
	for _, entry := range splitBracketed(gplink) {
		link, ok := parseGPLinkEntry(entry)
		if !ok {
			return nil
		}
		links = append(links, link)
	}
	return links
}

// splitBracketed splits "[a][b][c]" into ["a", "b", "c"]. A string that
// isn't entirely made of bracketed entries yields nil.
func splitBracketed(s string) []string {
	var parts []string
	for len(s) > 0 {
		if s[0] != '[' {
			return nil
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil
		}
		parts = append(parts, s[1:end])
		s = s[end+1:]
	}
	return parts
}

const gplinkEntryPrefix = "LDAP://cn={"

func parseGPLinkEntry(entry string) (GPLink, bool) {
	if len(entry) < len(gplinkEntryPrefix) || !strings.EqualFold(entry[:len(gplinkEntryPrefix)], gplinkEntryPrefix) {
		return GPLink{}, false
	}
	rest := entry[len(gplinkEntryPrefix):]
	closeIdx := strings.IndexByte(rest, '}')
	if closeIdx < 0 {
		return GPLink{}, false
	}
	guid := strings.ToUpper(rest[:closeIdx])
	tail, suffix := rest[closeIdx+1:], ""
	if semi := strings.LastIndexByte(tail, ';'); semi >= 0 {
		tail, suffix = tail[:semi], tail[semi:]
	}
	if tail != "" && tail[0] != ',' {
		return GPLink{}, false
	}

	switch suffix {
	case ";2":
		return GPLink{GUID: guid, IsEnforced: true}, true
	case ";0", "":
		return GPLink{GUID: guid, IsEnforced: false}, true
	default:
		return GPLink{}, false
	}
}
