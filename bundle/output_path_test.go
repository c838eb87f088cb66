package bundle

import (
	"net/url"
	"testing"

	"fontpack/config"
)

func TestBuildOutputName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		suffix        string
		want          string
	}{
		{"remote stylesheet", "https://cdn.example.com/assets/inter.css", false, "-fonts", "inter-fonts.zip"},
		{"query is ignored", "https://fonts.example.com/css2?family=Inter", false, "-fonts", "css2-fonts.zip"},
		{"host when no path", "https://fonts.example.com", false, "", "fonts.example.com.zip"},
		{"host when root path", "https://fonts.example.com/", false, "-fonts", "fonts.example.com-fonts.zip"},
		{"local file", "file:///home/user/site/Шрифты.css", false, "-fonts", "Шрифты-fonts.zip"},
		{"transliterated", "file:///home/user/site/Шрифты.css", true, "-fonts", "shrifty-fonts.zip"},
		{"transliterated spaces", "https://cdn.example.com/My%20Fonts.css", true, "", "my-fonts.zip"},
		{"nothing to name after", "file:///", false, "", "fonts.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.src)
			if err != nil {
				t.Fatalf("url.Parse() error = %v", err)
			}
			doc := &config.DocumentConfig{FileNameTransliterate: tt.transliterate, ArchiveSuffix: tt.suffix}
			if got := buildOutputName(u, doc); got != tt.want {
				t.Errorf("buildOutputName() = %q, want %q", got, tt.want)
			}
		})
	}
}
