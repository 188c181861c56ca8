package feed

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "  Just   some\ntext  ", "Just some text"},
		{"tags replaced by spaces", "<p>One.</p><p>Two.</p>", "One. Two."},
		{"entities decoded", "Tom &amp; Jerry &quot;live&quot;", `Tom & Jerry "live"`},
		{"script dropped", "<p>Visible</p><script>var hidden = 1;</script>", "Visible"},
		{"nested", "<div><b>Bold</b> and <i>italic</i></div>", "Bold and italic"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PlainText(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
