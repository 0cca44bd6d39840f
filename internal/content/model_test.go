package content

import "testing"

func TestParseSection(t *testing.T) {
	for _, s := range Sections {
		got, err := ParseSection(string(s))
		if err != nil || got != s {
			t.Errorf("ParseSection(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseSection("footer"); err == nil {
		t.Error("expected error for unknown section")
	}
	if SectionEvents.Path() != "content/events" {
		t.Errorf("Path() = %q", SectionEvents.Path())
	}
}

func TestSnapshotChildrenOrdersByKey(t *testing.T) {
	snap := NewSnapshot(map[string]any{
		"-Nb": map[string]any{"caption": "second"},
		"-Na": map[string]any{"caption": "first"},
		"bad": "not an object",
	})

	children := snap.Children()
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if children[0].Key != "-Na" || children[0].Value.String("caption") != "first" {
		t.Errorf("children[0] = %+v", children[0])
	}
	if children[1].Key != "-Nb" {
		t.Errorf("children[1] = %+v", children[1])
	}
}

func TestSnapshotChildrenFromArray(t *testing.T) {
	snap := NewSnapshot([]any{nil, map[string]any{"caption": "one"}, map[string]any{"caption": "two"}})
	children := snap.Children()
	if len(children) != 2 || children[0].Key != "1" || children[1].Key != "2" {
		t.Fatalf("children = %+v", children)
	}
}

func TestMissingSnapshot(t *testing.T) {
	if Missing().Exists() || NewSnapshot(nil).Exists() {
		t.Fatal("nil value must not exist")
	}
	if Missing().Record() != nil || len(Missing().Children()) != 0 {
		t.Fatal("missing snapshot must be empty")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"hello", "hello"},
		{5000.0, "5000"},
		{2.5, "2.5"},
		{42, "42"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	if n, ok := Number("150"); !ok || n != 150 {
		t.Errorf("Number(\"150\") = %v, %v", n, ok)
	}
	if _, ok := Number("lots"); ok {
		t.Error("non-numeric string must not parse")
	}
	if n, ok := Number(30); !ok || n != 30 {
		t.Errorf("Number(30) = %v, %v", n, ok)
	}
}
