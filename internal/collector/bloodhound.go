// Package collector turns a parsed snapshot plus its index into the
// minimal BloodHound JSON ingest set and writes it out as a gzip'd tar
// archive. Full per-kind property mapping is intentionally out of scope;
// this emitter carries only the fields the object model and index can
// answer directly.
package collector

import (
	"adscan/internal/index"
	"adscan/internal/rights"
	"adscan/internal/snapshot"
)

// Meta is the envelope every BloodHound ingest file shares.
type Meta struct {
	Methods int    `json:"methods"`
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Version int    `json:"version"`
}

// File is one emitted ingest file: a typed envelope plus its rows.
type File struct {
	Name string
	Meta Meta
	Data []any
}

// ACERow is one resolved (trustee, rights) pair against an object's DACL.
type ACERow struct {
	PrincipalSID string   `json:"PrincipalSID"`
	RightName    []string `json:"RightName"`
	IsInherited  bool     `json:"IsInherited"`
}

// Principal is the generic shape shared by every object kind's JSON row.
type Principal struct {
	Properties       map[string]any    `json:"Properties"`
	Aces             []ACERow          `json:"Aces"`
	Links            []snapshot.GPLink `json:"Links,omitempty"`
	ObjectIdentifier string            `json:"ObjectIdentifier"`
	IsDeleted        bool              `json:"IsDeleted"`
	IsACLProtected   bool              `json:"IsACLProtected"`
}

const bloodhoundSchemaVersion = 5

// Collector builds BloodHound JSON files from one parsed snapshot and
// its index.
type Collector struct {
	snap *snapshot.Snapshot
	idx  *index.Index
}

// New returns a Collector over an already-parsed snapshot and its index.
func New(snap *snapshot.Snapshot, idx *index.Index) *Collector {
	return &Collector{snap: snap, idx: idx}
}

// objectKinds is the fixed emission order archive.Write relies on.
var objectKinds = []struct {
	kind snapshot.Kind
	name string
}{
	{snapshot.KindDomain, "domains"},
	{snapshot.KindUser, "users"},
	{snapshot.KindComputer, "computers"},
	{snapshot.KindGroup, "groups"},
	{snapshot.KindOU, "ous"},
	{snapshot.KindContainer, "containers"},
	{snapshot.KindGPO, "gpos"},
}

// Collect builds all seven ingest files, in the fixed archive order.
func (c *Collector) Collect() []File {
	files := make([]File, 0, len(objectKinds))
	for _, entry := range objectKinds {
		files = append(files, c.collectKind(entry.kind, entry.name))
	}
	return files
}

func (c *Collector) collectKind(kind snapshot.Kind, name string) File {
	var rows []any
	for _, obj := range c.snap.Objects {
		objKind := obj.GetType()
		if objKind != kind && !(kind == snapshot.KindUser && objKind == snapshot.KindUserDisabled) {
			continue
		}
		rows = append(rows, c.buildPrincipal(obj, objKind))
	}
	return File{
		Name: name,
		Meta: Meta{Methods: 0, Type: name, Count: len(rows), Version: bloodhoundSchemaVersion},
		Data: rows,
	}
}

func (c *Collector) buildPrincipal(obj snapshot.Object, kind snapshot.Kind) Principal {
	identifier, _ := obj.ObjectIdentifier()
	name, _ := obj.GetFirst("name")
	dn, _ := obj.GetFirst("distinguishedName")

	props := map[string]any{
		"name":              name.Str,
		"domain":            c.idx.RootDomainDN,
		"objectid":          identifier,
		"distinguishedname": dn.Str,
		"highvalue":         false,
	}

	if kind == snapshot.KindUser || kind == snapshot.KindUserDisabled {
		if uac, ok := obj.GetFirst("userAccountControl"); ok && uac.Kind == snapshot.ValueInteger {
			for k, v := range uacProperties(uac.Int) {
				props[k] = v
			}
		}
	}

	return Principal{
		Properties:       props,
		Aces:             c.buildAces(obj, kind),
		Links:            gpLinks(obj, kind),
		ObjectIdentifier: identifier,
		IsDeleted:        false,
		IsACLProtected:   isACLProtected(obj),
	}
}

// gpLinks parses an OU or domain's gPLink attribute into its linked GPOs.
// Every other kind never carries this attribute, so it's nil for them.
func gpLinks(obj snapshot.Object, kind snapshot.Kind) []snapshot.GPLink {
	if kind != snapshot.KindOU && kind != snapshot.KindDomain {
		return nil
	}
	v, ok := obj.GetFirst("gPLink")
	if !ok {
		return nil
	}
	return snapshot.ParseGPLinks(v.Str)
}

// isACLProtected reports whether the object's security descriptor has
// the DACL-protected control bit set (SE_DACL_PROTECTED).
func isACLProtected(obj snapshot.Object) bool {
	sd, ok := securityDescriptor(obj)
	if !ok {
		return false
	}
	return sd.Control.IsSet(snapshot.ControlPD)
}

func securityDescriptor(obj snapshot.Object) (snapshot.SecurityDescriptor, bool) {
	v, ok := obj.GetFirst("nTSecurityDescriptor")
	if !ok {
		return snapshot.SecurityDescriptor{}, false
	}
	sd, err := v.AsSecurityDescriptor()
	if err != nil {
		return snapshot.SecurityDescriptor{}, false
	}
	return sd, true
}

// buildAces resolves one object's DACL into rows, applying the
// SID-resolution gate: a trustee that isn't in the SID index contributes
// no row at all, matching the owner-row gate spec.md §4.6 states
// explicitly and the DACL-row gate this repo supplements from
// aces.rs (see DESIGN.md, Open Question 4).
func (c *Collector) buildAces(obj snapshot.Object, kind snapshot.Kind) []ACERow {
	sd, ok := securityDescriptor(obj)
	if !ok {
		return nil
	}

	var rows []ACERow
	if sd.Owner != nil {
		if _, resolved := c.idx.LookupSID(sd.Owner.String()); resolved {
			rows = append(rows, ACERow{
				PrincipalSID: sd.Owner.String(),
				RightName:    []string{"Owns"},
				IsInherited:  false,
			})
		}
	}

	if sd.Dacl == nil {
		return rows
	}

	hasLAPS := hasLAPSExpiration(obj)
	for _, ace := range sd.Dacl.ACEs {
		if ace.Type != snapshot.ACETypeAccessAllowed && ace.Type != snapshot.ACETypeAccessAllowedObject {
			continue // deny ACEs grant nothing; Translate assumes an allow ACE
		}
		if _, resolved := c.idx.LookupSID(ace.Trustee.String()); !resolved {
			continue
		}
		granted := rights.Translate(ace, kind, hasLAPS)
		if len(granted) == 0 {
			continue
		}
		rows = append(rows, ACERow{
			PrincipalSID: ace.Trustee.String(),
			RightName:    granted.Names(),
			IsInherited:  ace.IsInherited(),
		})
	}
	return rows
}

func hasLAPSExpiration(obj snapshot.Object) bool {
	_, ok := obj.GetFirst("ms-Mcs-AdmPwdExpirationTime")
	return ok
}
