package docvault

import (
	"slices"
	"testing"
)

func TestEncodeDecodePath(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		path string
	}{
		{"root", []int64{1}, "1"},
		{"child", []int64{1, 5}, "1.5"},
		{"deep", []int64{1, 5, 12, 40}, "1.5.12.40"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodePath(tt.ids); got != tt.path {
				t.Errorf("EncodePath(%v) = %q, want %q", tt.ids, got, tt.path)
			}
			got, err := DecodePath(tt.path)
			if err != nil {
				t.Fatalf("DecodePath(%q) error: %v", tt.path, err)
			}
			if !slices.Equal(got, tt.ids) {
				t.Errorf("DecodePath(%q) = %v, want %v", tt.path, got, tt.ids)
			}
		})
	}
}

func TestDecodePath_Malformed(t *testing.T) {
	for _, path := range []string{"1..2", "a.b", "1.", ".1", "1.-3", "0"} {
		t.Run(path, func(t *testing.T) {
			if _, err := DecodePath(path); err == nil {
				t.Errorf("DecodePath(%q) expected error", path)
			}
		})
	}
}

func TestChildPathAndDepth(t *testing.T) {
	tests := []struct {
		parent string
		id     int64
		want   string
		depth  int
	}{
		{"", 1, "1", 0},
		{"1", 2, "1.2", 1},
		{"1.2", 7, "1.2.7", 2},
	}

	for _, tt := range tests {
		got := ChildPath(tt.parent, tt.id)
		if got != tt.want {
			t.Errorf("ChildPath(%q, %d) = %q, want %q", tt.parent, tt.id, got, tt.want)
		}
		if d := PathDepth(got); d != tt.depth {
			t.Errorf("PathDepth(%q) = %d, want %d", got, d, tt.depth)
		}
	}

	if d := PathDepth(""); d != -1 {
		t.Errorf("PathDepth(\"\") = %d, want -1", d)
	}
}

func TestIsDescendantPath(t *testing.T) {
	tests := []struct {
		path, ancestor string
		want           bool
	}{
		{"1.5.12", "1.5", true},
		{"1.5", "1.5", false},
		{"1.50", "1.5", false},
		{"1.5.12", "1", true},
		{"2.5", "1", false},
		{"1", "", false},
	}

	for _, tt := range tests {
		if got := IsDescendantPath(tt.path, tt.ancestor); got != tt.want {
			t.Errorf("IsDescendantPath(%q, %q) = %v, want %v", tt.path, tt.ancestor, got, tt.want)
		}
	}
}

func TestSplitURLPath(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"/", nil},
		{"legal", []string{"legal"}},
		{"/legal/contracts/", []string{"legal", "contracts"}},
		{"legal//contracts", []string{"legal", "contracts"}},
		{"legal/contracts/nda", []string{"legal", "contracts", "nda"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := SplitURLPath(tt.raw)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitURLPath(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}

	if got := JoinURLPath("legal", "contracts"); got != "legal/contracts" {
		t.Errorf("JoinURLPath = %q", got)
	}
}
