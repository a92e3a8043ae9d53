package nameplate

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// NameEntry is one name to generate a plate for.
type NameEntry struct {
	Raw  string // text as read from the source
	Name string // trimmed display text
	ID   string // file-safe identifier, unique within a batch
	Line int    // 1-based line in the names file, 0 for command line names
}

// Sanitize turns a display name into a lowercase file-safe identifier.
// Letters, digits and '-' are kept, runs of whitespace and path separators
// become a single '_', everything else is dropped. A name with nothing left
// maps to "name_" plus a short hash of the input.
//
// Sanitize("Hadi Jaffri") == "hadi_jaffri"
func Sanitize(name string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '/' || r == '\\' || r == '.':
			pendingSep = true
		}
	}

	if b.Len() == 0 {
		sum := sha1.Sum([]byte(name))
		return "name_" + hex.EncodeToString(sum[:4])
	}
	return b.String()
}

// FileSuffixes are appended to an identifier to name the per-part output
// files of a plate, as in "hadi_jaffri_base.stl".
var FileSuffixes = []string{"_base", "_text", "_painted"}

// IDRegistry hands out batch-unique identifiers.
//
// Identifiers are lowercase, so names that differ only in case (or only in
// dropped punctuation) sanitize to the same value. The first name keeps the
// plain identifier, later distinct names get "_2", "_3", ... in input order.
// The same name always gets the same identifier, so duplicates in the input
// regenerate and overwrite the same files.
//
// An identifier also claims its FileSuffixes stems: "Jo" holds "jo_base",
// so "Jo Base" gets "jo_base_2" and never overwrites the base part of "Jo".
type IDRegistry struct {
	byID   map[string]string
	byName map[string]string
	stems  map[string]bool
}

// NewIDRegistry creates an empty registry.
func NewIDRegistry() *IDRegistry {
	return &IDRegistry{
		byID:   make(map[string]string),
		byName: make(map[string]string),
		stems:  make(map[string]bool),
	}
}

func stemsOf(id string) []string {
	stems := []string{id}
	for _, suffix := range FileSuffixes {
		stems = append(stems, id+suffix)
	}
	return stems
}

// free reports whether none of the file stems of id are in use.
func (r *IDRegistry) free(id string) bool {
	for _, stem := range stemsOf(id) {
		if r.stems[stem] {
			return false
		}
	}
	return true
}

func (r *IDRegistry) add(id, name string) {
	r.byID[id] = name
	r.byName[name] = id
	for _, stem := range stemsOf(id) {
		r.stems[stem] = true
	}
}

// Assign returns the identifier for name. renamed is true when the plain
// sanitized identifier was already taken by a different name.
func (r *IDRegistry) Assign(name string) (id string, renamed bool) {
	name = strings.TrimSpace(name)
	if id, ok := r.byName[name]; ok {
		return id, false
	}

	base := Sanitize(name)
	id = base
	for n := 2; !r.free(id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}

	r.add(id, name)
	return id, id != base
}

// Reserve registers an identifier chosen elsewhere. It reports false when id
// or one of its file stems already belongs to a different name, or when name
// already holds another identifier.
func (r *IDRegistry) Reserve(id, name string) bool {
	name = strings.TrimSpace(name)
	if owner, ok := r.byID[id]; ok {
		return owner == name
	}
	if _, ok := r.byName[name]; ok {
		return false
	}
	if !r.free(id) {
		return false
	}
	r.add(id, name)
	return true
}

// Lookup returns the display name an identifier was assigned to.
func (r *IDRegistry) Lookup(id string) (string, bool) {
	name, ok := r.byID[id]
	return name, ok
}

// Len returns the number of distinct names registered.
func (r *IDRegistry) Len() int {
	return len(r.byID)
}
