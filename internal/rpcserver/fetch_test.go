package rpcserver

import "testing"

func TestGraphKey_RoundTrip(t *testing.T) {
	cases := []struct {
		prefix     string
		name       string
		resolution int
		ext        string
	}{
		{"graphs/", "jakarta", 9, "zst"},
		{"graphs/", "jakarta", 10, "gz"},
		{"graphs/", "jakarta", 10, ""},
		{"", "bare", 7, "zst"},
	}
	for _, c := range cases {
		key := graphKey(c.prefix, c.name, c.resolution, c.ext)
		name, resolution, ext, ok := parseGraphKey(c.prefix, key)
		if !ok {
			t.Fatalf("parseGraphKey(%q) failed to parse key %q", c.prefix, key)
		}
		if name != c.name || resolution != c.resolution || ext != c.ext {
			t.Errorf("parseGraphKey(%q) = (%q, %d, %q), want (%q, %d, %q)", key, name, resolution, ext, c.name, c.resolution, c.ext)
		}
	}
}

func TestGraphKey_SameNameDifferentResolutionsDontCollide(t *testing.T) {
	k1 := graphKey("graphs/", "jakarta", 9, "zst")
	k2 := graphKey("graphs/", "jakarta", 10, "zst")
	if k1 == k2 {
		t.Fatalf("expected distinct keys for the same name at different resolutions, got %q for both", k1)
	}
}

func TestParseGraphKey_RejectsStrayFile(t *testing.T) {
	if name := graphNameFromKey("graphs/", "graphs/README.md"); name != "" {
		t.Errorf("expected a non-matching key to yield no name, got %q", name)
	}
}
