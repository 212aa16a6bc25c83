package deployment

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"1.4.0", Version{1, 4, 0, 0}},
		{"0.3.16", Version{0, 3, 16, 0}},
		{"0.3.16.1", Version{0, 3, 16, 1}},
		{"v1.4.0", Version{1, 4, 0, 0}},
		{"1.4.0rc2", Version{1, 4, 0, 0}},
		{"1.4.0-SNAPSHOT", Version{1, 4, 0, 0}},
		{"v0.3.16.2-rc1", Version{0, 3, 16, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if err != nil {
				t.Fatalf("ParseVersion(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseVersion_Malformed(t *testing.T) {
	for _, in := range []string{"", "1.4", "abc", "1.4.x", "1.4.0.5.6"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseVersion(in); err == nil {
				t.Errorf("ParseVersion(%q): expected error", in)
			}
		})
	}
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b Version
		want int
	}{
		{Version{1, 4, 0, 0}, Version{1, 4, 0, 0}, 0},
		{Version{1, 4, 0, 0}, Version{1, 3, 9, 9}, 1},
		{Version{0, 3, 15, 9}, Version{0, 3, 16, 0}, -1},
		{Version{0, 3, 16, 1}, Version{0, 3, 16, 0}, 1},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRequirement_NilMinimumNeverAvailable(t *testing.T) {
	// Hosted-only tool: no self-managed minimum registered.
	req, err := NewRequirement("0.3.16", "")
	if err != nil {
		t.Fatalf("NewRequirement: %v", err)
	}

	selfManaged := Info{Hosted: false, Version: Version{99, 0, 0, 0}}
	if req.SatisfiedBy(selfManaged) {
		t.Error("hosted-only tool must be unavailable on self-managed at any version")
	}

	hosted := Info{Hosted: true, Version: Version{0, 3, 16, 0}}
	if !req.SatisfiedBy(hosted) {
		t.Error("expected tool available on hosted at exactly the minimum")
	}

	oldHosted := Info{Hosted: true, Version: Version{0, 3, 15, 9}}
	if req.SatisfiedBy(oldHosted) {
		t.Error("expected tool unavailable below the hosted minimum")
	}
}

func TestNewRequirement_MalformedFailsAtRegistration(t *testing.T) {
	if _, err := NewRequirement("not-a-version", "1.4.0"); err == nil {
		t.Error("expected registration failure for malformed hosted minimum")
	}
	if _, err := NewRequirement("0.3.16", "nope"); err == nil {
		t.Error("expected registration failure for malformed self-managed minimum")
	}
}
