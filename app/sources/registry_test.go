package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

const testCategories = `
categories:
  - name: sports
    keywords: [cricket, football, Cricket, "  "]
    fallback: [match]
  - name: politics
    keywords: [election]
`

const testNational = `
sources:
  - name: "National One"
    url: "https://national.example.com/one.xml"
    category: politics
  - name: "National Two"
    url: "https://national.example.com/two.xml"
    category: sports
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"categories.yml": {Data: []byte(testCategories)},
		"national.yml":   {Data: []byte(testNational)},
		"regions/tn.yml": {Data: []byte(`
name: "Tamil Nadu"
keywords: [Chennai, dmk]
cities: [madurai]
sources:
  - name: "Chennai Daily"
    url: "https://chennai.example.com/feed"
    category: sports
`)},
	}
}

func TestLoadDefaultRegistry(t *testing.T) {
	registry, err := LoadDefault()
	if err != nil {
		t.Fatalf("Expected embedded registry to load, got: %v", err)
	}

	if len(registry.National()) != 26 {
		t.Errorf("Expected 26 national sources, got %d", len(registry.National()))
	}
	if len(registry.Regions()) != 18 {
		t.Errorf("Expected 18 regions, got %d", len(registry.Regions()))
	}

	names := make([]string, 0)
	for _, category := range registry.Categories() {
		names = append(names, category.Name)
	}
	if strings.Join(names, ",") != "sports,tech,economics,politics,crime" {
		t.Errorf("Unexpected category order: %v", names)
	}

	tn, ok := registry.Region("tn")
	if !ok {
		t.Fatal("Expected region TN to exist")
	}
	if tn.Name != "Tamil Nadu" {
		t.Errorf("Expected name 'Tamil Nadu', got '%s'", tn.Name)
	}
}

func TestSourcesForRegion(t *testing.T) {
	registry, err := Load(testFS())
	if err != nil {
		t.Fatal(err)
	}

	list := registry.Sources("TN")
	if len(list) != 3 {
		t.Fatalf("Expected 3 sources, got %d", len(list))
	}

	first := list[0]
	if first.Name != "Chennai Daily" {
		t.Errorf("Expected region source first, got '%s'", first.Name)
	}
	if first.RegionCode != "TN" {
		t.Errorf("Expected region code 'TN', got '%s'", first.RegionCode)
	}
	if first.Category != "" {
		t.Errorf("Expected region source without category, got '%s'", first.Category)
	}
	if list[1].RegionCode != "" || list[1].Category != "politics" {
		t.Errorf("Expected national source after region sources, got %+v", list[1])
	}
}

func TestSourcesFallbackToNational(t *testing.T) {
	registry, err := Load(testFS())
	if err != nil {
		t.Fatal(err)
	}

	for _, code := range []string{"all", "ALL", "", "XX"} {
		list := registry.Sources(code)
		if len(list) != 2 {
			t.Errorf("Expected 2 national sources for code %q, got %d", code, len(list))
		}
	}
}

func TestSourcesReturnsCopy(t *testing.T) {
	registry, err := Load(testFS())
	if err != nil {
		t.Fatal(err)
	}

	list := registry.Sources("all")
	list[0].Name = "changed"

	if registry.Sources("all")[0].Name != "National One" {
		t.Error("Expected registry to be unaffected by caller mutation")
	}
}

func TestTermsNormalized(t *testing.T) {
	registry, err := Load(testFS())
	if err != nil {
		t.Fatal(err)
	}

	sports := registry.Categories()[0]
	if len(sports.Keywords) != 2 {
		t.Errorf("Expected duplicate and blank keywords removed, got %v", sports.Keywords)
	}

	tn, _ := registry.Region("TN")
	if tn.Keywords[0] != "chennai" {
		t.Errorf("Expected lower-cased keyword 'chennai', got '%s'", tn.Keywords[0])
	}
}

func TestAllDeduplicatesURLs(t *testing.T) {
	fsys := testFS()
	fsys["regions/ka.yml"] = &fstest.MapFile{Data: []byte(`
name: "Karnataka"
sources:
  - name: "Shared"
    url: "https://national.example.com/one.xml"
  - name: "Bengaluru Daily"
    url: "https://blr.example.com/feed"
`)}

	registry, err := Load(fsys)
	if err != nil {
		t.Fatal(err)
	}

	if registry.SourceCount() != 4 {
		t.Errorf("Expected 4 unique sources, got %d", registry.SourceCount())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"missing url", "national.yml", "sources:\n  - name: \"No URL\"\n"},
		{"unknown category", "national.yml", "sources:\n  - name: \"X\"\n    url: \"https://x\"\n    category: weather\n"},
		{"duplicate category", "categories.yml", "categories:\n  - name: sports\n  - name: sports\n"},
		{"reserved region", "regions/all.yml", "name: \"Everything\"\n"},
		{"missing region name", "regions/xx.yml", "keywords: [a]\n"},
		{"bad yaml", "regions/yy.yml", "name: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFS()
			fsys[tt.file] = &fstest.MapFile{Data: []byte(tt.data)}

			if _, err := Load(fsys); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	tempDir := t.TempDir()

	for name, file := range testFS() {
		target := filepath.Join(tempDir, name)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(target, file.Data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	registry, err := LoadDir(tempDir)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok := registry.Region("TN"); !ok {
		t.Error("Expected region TN loaded from directory")
	}

	if _, err := LoadDir(filepath.Join(tempDir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
