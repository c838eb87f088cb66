package fontface

import "testing"

func record(name, weight, style string, sources ...string) Record {
	rec := Record{Name: name, Weight: Weight{Value: weight}, Style: style}
	for i := 0; i+1 < len(sources); i += 2 {
		rec.Sources.Set(sources[i], sources[i+1])
	}
	return rec
}

func TestExt(t *testing.T) {
	tests := map[string]string{
		"opentype": "otf",
		"":         "font",
		"woff2":    "woff2",
		"truetype": "truetype",
	}
	for in, want := range tests {
		if got := Ext(in); got != want {
			t.Errorf("Ext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFileName(t *testing.T) {
	rec := record("Inter", "700", "italic")
	tests := []struct {
		format string
		want   string
	}{
		{"woff2", "Inter-w-700-s-italic.woff2"},
		{"opentype", "Inter-w-700-s-italic.otf"},
		{"", "Inter-w-700-s-italic.font"},
	}
	for _, tt := range tests {
		if got := FileName(&rec, tt.format); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFileName_Separators(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"AC/DC", "AC_DC-w-400-s-normal.woff2"},
		{`Back\Slash`, "Back_Slash-w-400-s-normal.woff2"},
		{"../up", ".._up-w-400-s-normal.woff2"},
	}
	for _, tt := range tests {
		rec := record(tt.name, "400", "normal")
		if got := FileName(&rec, "woff2"); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewDownloadMap(t *testing.T) {
	records := []Record{
		record("Inter", "400", "normal", "woff2", "https://a/400.woff2"),
		record("Inter", "700", "normal", "woff2", "https://a/700.woff2", "woff", "https://a/700.woff"),
	}
	dm := NewDownloadMap(records)

	want := []Download{
		{"Inter-w-400-s-normal.woff2", "https://a/400.woff2"},
		{"Inter-w-700-s-normal.woff2", "https://a/700.woff2"},
		{"Inter-w-700-s-normal.woff", "https://a/700.woff"},
	}
	if dm.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", dm.Len(), len(want))
	}
	for i, d := range dm.All() {
		if d != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, d, want[i])
		}
	}
}

// Characterization: faces which differ only by source URL but share name,
// weight, style and format collapse into one file, the last URL wins.
func TestNewDownloadMap_CollisionOverwrites(t *testing.T) {
	records := []Record{
		record("Inter", "400", "normal", "woff2", "https://a/latin.woff2", "woff", "https://a/latin.woff"),
		record("Inter", "400", "normal", "woff2", "https://a/cyrillic.woff2"),
	}
	dm := NewDownloadMap(records)

	if dm.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dm.Len())
	}
	if u, _ := dm.URL("Inter-w-400-s-normal.woff2"); u != "https://a/cyrillic.woff2" {
		t.Errorf("collided entry url = %q, want the later one", u)
	}
	if first := dm.All()[0].Name; first != "Inter-w-400-s-normal.woff2" {
		t.Errorf("collided entry moved to %q", first)
	}
	if _, ok := dm.URL("missing"); ok {
		t.Error("URL() of unknown name reported ok")
	}
}

func TestSources_Set(t *testing.T) {
	var s Sources
	s.Set("woff2", "a")
	s.Set("", "b")
	s.Set("woff2", "c")

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	all := s.All()
	if all[0] != (Source{Format: "woff2", URL: "c"}) || all[1] != (Source{Format: "", URL: "b"}) {
		t.Errorf("All() = %+v", all)
	}
	if _, ok := s.Get("woff"); ok {
		t.Error("Get() of missing format reported ok")
	}
	var empty Sources
	if _, ok := empty.Get(""); ok {
		t.Error("Get() on zero value reported ok")
	}
}
