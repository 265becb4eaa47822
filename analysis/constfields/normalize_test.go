package constfields

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		literal  string
		expected string
		ok       bool
	}{
		{"foo/bar.baz", "BAR_FOO", true},
		{"items/red", "RED_ITEM", true},
		{"minecraft:stone", "STONE", true},
		{"a:b/c.d", "C_B", true},
		{"textures/block/stone.png", "BLOCK_STONE_TEXTURE", true},
		{"camelCase", "CAMEL_CASE", true},
		{"HTTPServer", "HTTP_SERVER", true},
		{"dark oak", "DARK_OAK", true},
		{"level2", "LEVEL2", true},
		{"123", "", false},
		{"--", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		name, ok := NormalizeName(test.literal)
		if ok != test.ok || name != test.expected {
			t.Errorf("NormalizeName(%q) = %q, %v, expected %q, %v", test.literal, name, ok, test.expected, test.ok)
		}
	}
}
