package match

// Registry is the document-embedded fragment mapping local person names to
// canonical person ids. Resolution is closed-world within one document; the
// ingest validator re-checks existence against the store at write time,
// because an id may already exist from an earlier document.
type Registry map[string]string

// Resolve returns the canonical id for a local name, or ok=false when the
// fragment does not know the name.
func (r Registry) Resolve(name string) (string, bool) {
	id, ok := r[name]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Ref resolves a local name into a PersonRef, keeping the name for
// diagnostics when the id is unknown.
func (r Registry) Ref(name string) PersonRef {
	id, _ := r.Resolve(name)
	return PersonRef{Name: name, ID: id}
}

// PersonRef carries a local name together with its resolved canonical id.
// ID is empty when the registry fragment does not contain the name.
type PersonRef struct {
	Name string
	ID   string
}

// Resolved reports whether the reference carries a canonical id.
func (p PersonRef) Resolved() bool { return p.ID != "" }
