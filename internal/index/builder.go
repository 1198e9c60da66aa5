// Package index builds the lookup tables a collector needs to turn a
// parsed snapshot into relationship rows: SID/DN/class-name caches,
// computer and domain-controller sets, the object-type GUID table, and
// the certificate-template cache. Every index is built once, in a single
// pass over the snapshot's objects, and is immutable afterward.
package index

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"adscan/internal/snapshot"
)

var upperCaser = cases.Upper(language.Und)

const (
	samAccountTypeComputer  = 805306369
	userAccountControlDCBit = 0x2000
	crossRefSystemFlagBit   = 2
)

// Index is the set of lookup tables built from one parsed Snapshot.
type Index struct {
	RootDomainDN string
	DomainSID    string

	sidIndex             map[string]int
	dnIndex              map[string]int
	computerIndex        map[string]int
	classNameIndex       map[string]int
	objectTypeGUIDIndex  map[objectTypeGUIDKey]snapshot.GUID
	domainIndex          map[string]int
	domainControllers    []int
	certificateTemplates map[string]map[string]struct{}
}

// objectKind distinguishes which slice of the snapshot an
// objectTypeGUIDIndex entry's integer index refers to, matching
// SPEC_FULL.md's decision to key that index on (kind, index) rather than
// a single shared integer space.
type objectKind int

const (
	objectKindClass objectKind = iota
	objectKindProperty
)

type objectTypeGUIDKey struct {
	kind  objectKind
	index int
}

// upper normalizes a cache key the way the directory treats SID/DN/name
// comparisons: case-insensitively.
func upper(s string) string {
	return upperCaser.String(s)
}

// Build walks snap once and returns its lookup tables.
func Build(snap *snapshot.Snapshot) *Index {
	idx := &Index{
		sidIndex:             make(map[string]int),
		dnIndex:              make(map[string]int),
		computerIndex:        make(map[string]int),
		classNameIndex:       make(map[string]int),
		objectTypeGUIDIndex:  make(map[objectTypeGUIDKey]snapshot.GUID),
		domainIndex:          make(map[string]int),
		certificateTemplates: make(map[string]map[string]struct{}),
	}

	for i, class := range snap.Classes {
		idx.objectTypeGUIDIndex[objectTypeGUIDKey{objectKindClass, i}] = class.SchemaIDGUID
		idx.classNameIndex[upper(class.ClassName)] = i
		idx.classNameIndex[upper(class.DN)] = i
		if cn, ok := commonNameFromDN(class.DN); ok {
			idx.classNameIndex[upper(cn)] = i
		}
	}
	for i, prop := range snap.Properties {
		idx.objectTypeGUIDIndex[objectTypeGUIDKey{objectKindProperty, i}] = prop.SchemaIDGUID
	}

	for i, obj := range snap.Objects {
		idx.indexObject(i, obj)
	}

	return idx
}

func (idx *Index) indexObject(i int, obj snapshot.Object) {
	var sidStr string
	if v, ok := obj.GetFirst("objectSid"); ok {
		if sid, err := v.AsSID(); err == nil {
			sidStr = sid.String()
			idx.sidIndex[upper(sidStr)] = i
		}
	}

	dn, hasDN := stringAttr(obj, "distinguishedName")
	if hasDN {
		idx.dnIndex[upper(dn)] = i
	}

	classes := lowerClasses(obj.Classes())
	if classes["domain"] {
		idx.RootDomainDN = dn
		idx.DomainSID = sidStr
		if hasDN {
			idx.domainIndex[dn] = i
		}
	}
	if classes["crossref"] {
		if flags, ok := intAttr(obj, "systemFlags"); ok && flags&crossRefSystemFlagBit == crossRefSystemFlagBit {
			if ncname, ok := stringAttr(obj, "nCName"); ok {
				if _, exists := idx.domainIndex[ncname]; !exists {
					idx.domainIndex[ncname] = i
				}
			}
		}
	}
	if classes["pkienrollmentservice"] {
		if name, ok := stringAttr(obj, "name"); ok {
			if templates, ok := stringListAttr(obj, "certificateTemplates"); ok {
				for _, t := range templates {
					set, exists := idx.certificateTemplates[t]
					if !exists {
						set = make(map[string]struct{})
						idx.certificateTemplates[t] = set
					}
					set[name] = struct{}{}
				}
			}
		}
	}

	if isComputerObject(obj) {
		if host, ok := stringAttr(obj, "dNSHostName"); ok {
			idx.computerIndex[upper(host)] = i
		}
		if name, ok := stringAttr(obj, "name"); ok {
			idx.computerIndex[upper(name)] = i
		}
	}

	if uac, ok := intAttr(obj, "userAccountControl"); ok && uac&userAccountControlDCBit == userAccountControlDCBit {
		idx.domainControllers = append(idx.domainControllers, i)
	}
}

func isComputerObject(obj snapshot.Object) bool {
	v, ok := obj.GetFirst("sAMAccountType")
	return ok && v.Kind == snapshot.ValueInteger && v.Int == samAccountTypeComputer
}

func stringAttr(obj snapshot.Object, name string) (string, bool) {
	v, ok := obj.GetFirst(name)
	if !ok || v.Kind != snapshot.ValueString {
		return "", false
	}
	return v.Str, true
}

func intAttr(obj snapshot.Object, name string) (uint32, bool) {
	v, ok := obj.GetFirst(name)
	if !ok || v.Kind != snapshot.ValueInteger {
		return 0, false
	}
	return v.Int, true
}

func stringListAttr(obj snapshot.Object, name string) ([]string, bool) {
	values, ok := obj.Get(name)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Kind == snapshot.ValueString {
			out = append(out, v.Str)
		}
	}
	return out, len(out) > 0
}

func lowerClasses(classes []string) map[string]bool {
	out := make(map[string]bool, len(classes))
	for _, c := range classes {
		out[strings.ToLower(c)] = true
	}
	return out
}

// commonNameFromDN extracts the value of a DN's leading RDN, e.g.
// "CN=Computer,DC=example,DC=com" -> "Computer".
func commonNameFromDN(dn string) (string, bool) {
	rdn, _, _ := strings.Cut(dn, ",")
	_, value, ok := strings.Cut(rdn, "=")
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// LookupSID resolves a SID's string form (case-insensitive) to an object
// index.
func (idx *Index) LookupSID(sid string) (int, bool) {
	i, ok := idx.sidIndex[upper(sid)]
	return i, ok
}

// LookupDN resolves a distinguished name (case-insensitive) to an object
// index.
func (idx *Index) LookupDN(dn string) (int, bool) {
	i, ok := idx.dnIndex[upper(dn)]
	return i, ok
}

// LookupComputer resolves a computer's dNSHostName or name
// (case-insensitive) to an object index.
func (idx *Index) LookupComputer(name string) (int, bool) {
	i, ok := idx.computerIndex[upper(name)]
	return i, ok
}

// LookupClass resolves a class name, class DN, or class CN
// (case-insensitive) to a Classes slice index.
func (idx *Index) LookupClass(name string) (int, bool) {
	i, ok := idx.classNameIndex[upper(name)]
	return i, ok
}

// ClassSchemaGUID resolves a class's index to its schema GUID.
func (idx *Index) ClassSchemaGUID(classIndex int) (snapshot.GUID, bool) {
	g, ok := idx.objectTypeGUIDIndex[objectTypeGUIDKey{objectKindClass, classIndex}]
	return g, ok
}

// PropertySchemaGUID resolves a property's index to its schema GUID.
func (idx *Index) PropertySchemaGUID(propertyIndex int) (snapshot.GUID, bool) {
	g, ok := idx.objectTypeGUIDIndex[objectTypeGUIDKey{objectKindProperty, propertyIndex}]
	return g, ok
}

// DomainControllers returns the object indexes flagged as domain
// controllers (userAccountControl's SERVER_TRUST_ACCOUNT bit).
func (idx *Index) DomainControllers() []int {
	return idx.domainControllers
}

// CertificateTemplateNames returns the enrollment-service names that
// publish the given certificate template name, as listed in their
// certificateTemplates attribute (exact-case match).
func (idx *Index) CertificateTemplateNames(templateName string) []string {
	set, ok := idx.certificateTemplates[templateName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}

// OUChildren returns the object indexes whose distinguishedName is a
// direct child of ouDN: one RDN below it, not further down the tree.
func (idx *Index) OUChildren(snap *snapshot.Snapshot, ouDN string) []int {
	ouUpper := upper(ouDN)
	prefix := "," + ouUpper

	seen := make(map[int]struct{})
	for dn, i := range idx.dnIndex {
		if dn == ouUpper || !strings.HasSuffix(dn, prefix) {
			continue
		}
		relative := dn[:len(dn)-len(ouUpper)]
		if strings.Count(relative, ",") <= 1 {
			seen[i] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	return out
}
