package nameplate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"Hadi Jaffri":           "hadi_jaffri",
		"  Hussein   Naqi ":     "hussein_naqi",
		"Anne-Marie O'Brien":    "anne-marie_obrien",
		"Dr. Who":               "dr_who",
		"AC/DC":                 "ac_dc",
		"José Ñúñez":            "josé_ñúñez",
		"Tab\tSeparated":        "tab_separated",
		"trailing punctuation!": "trailing_punctuation",
	}

	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestSanitizeNothingLeft(t *testing.T) {
	a := Sanitize("!!!")
	b := Sanitize("???")

	if !strings.HasPrefix(a, "name_") || len(a) != len("name_")+8 {
		t.Errorf("unexpected fallback identifier %q", a)
	}
	if a == b {
		t.Errorf("different punctuation-only names collided on %q", a)
	}
	if a != Sanitize("!!!") {
		t.Error("fallback identifier must be deterministic")
	}
}

func TestIDRegistryCaseCollision(t *testing.T) {
	reg := NewIDRegistry()

	first, renamed := reg.Assign("Ali Ahmed")
	if first != "ali_ahmed" || renamed {
		t.Errorf("first: got %q renamed=%v", first, renamed)
	}

	second, renamed := reg.Assign("ALI AHMED")
	if second != "ali_ahmed_2" || !renamed {
		t.Errorf("second: got %q renamed=%v", second, renamed)
	}

	for id, want := range map[string]string{first: "Ali Ahmed", second: "ALI AHMED"} {
		got, ok := reg.Lookup(id)
		if !ok || got != want {
			t.Errorf("Lookup(%q): expected %q, got %q (ok=%v)", id, want, got, ok)
		}
	}
}

func TestIDRegistrySameNameIsStable(t *testing.T) {
	reg := NewIDRegistry()

	a, _ := reg.Assign("Hadi Jaffri")
	b, renamed := reg.Assign(" Hadi Jaffri ")
	if a != b || renamed {
		t.Errorf("duplicate name should reuse %q, got %q (renamed=%v)", a, b, renamed)
	}
	if reg.Len() != 1 {
		t.Errorf("Len: expected 1, got %d", reg.Len())
	}
}

func TestIDRegistryDistinctNamesNeverCollide(t *testing.T) {
	names := []string{
		"Ali Ahmed", "ALI AHMED", "ali ahmed", "Ali-Ahmed", "Ali_Ahmed", "Ali.Ahmed",
		"ali_ahmed_2", "Ali Ahmed!", "Ali  Ahmed",
	}

	reg := NewIDRegistry()
	var ids []string
	seen := make(map[string]string)
	for _, name := range names {
		id, _ := reg.Assign(name)
		if other, dup := seen[id]; dup && other != name {
			t.Errorf("%q and %q share identifier %q", other, name, id)
		}
		seen[id] = name
		ids = append(ids, id)
	}

	want := []string{
		"ali_ahmed", "ali_ahmed_2", "ali_ahmed_3", "ali-ahmed", "ali_ahmed_4", "ali_ahmed_5",
		"ali_ahmed_2_2", "ali_ahmed_6", "ali_ahmed_7",
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestIDRegistryKeepsFileStemsApart(t *testing.T) {
	tests := []struct {
		names []string
		want  []string
	}{
		{[]string{"Jo", "Jo Base"}, []string{"jo", "jo_base_2"}},
		{[]string{"Jo Base", "Jo"}, []string{"jo_base", "jo_2"}},
		{[]string{"Jo", "Jo Text", "Jo Painted", "Jo Other"}, []string{"jo", "jo_text_2", "jo_painted_2", "jo_other"}},
	}

	for _, tt := range tests {
		reg := NewIDRegistry()
		var ids []string
		for _, name := range tt.names {
			id, _ := reg.Assign(name)
			ids = append(ids, id)
		}
		if diff := cmp.Diff(tt.want, ids); diff != "" {
			t.Errorf("%v: identifiers mismatch (-want +got):\n%s", tt.names, diff)
		}
	}
}

func TestIDRegistryReserve(t *testing.T) {
	reg := NewIDRegistry()
	if !reg.Reserve("jo", "Jo") {
		t.Fatal("reserving a free identifier failed")
	}
	if !reg.Reserve("jo", " Jo ") {
		t.Error("reserving the same identifier for the same name should succeed")
	}
	if reg.Reserve("jo_base", "Jo Base") {
		t.Error("jo_base is a file stem of jo")
	}
	if reg.Reserve("jo_2", "Jo") {
		t.Error("Jo already holds jo")
	}

	id, renamed := reg.Assign("Jo Base")
	if id != "jo_base_2" || !renamed {
		t.Errorf("Assign after failed Reserve: got %q renamed=%v", id, renamed)
	}
}
