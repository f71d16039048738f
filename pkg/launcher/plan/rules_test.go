package plan

import (
	"testing"

	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/version"
)

func allow(osName string) version.Rule {
	r := version.Rule{Action: "allow"}
	if osName != "" {
		r.OS = &version.OSRule{Name: osName}
	}
	return r
}

func disallow(osName string) version.Rule {
	r := version.Rule{Action: "disallow"}
	if osName != "" {
		r.OS = &version.OSRule{Name: osName}
	}
	return r
}

// TestAllowed tests the platform rule verdict table
func TestAllowed(t *testing.T) {
	tests := []struct {
		name  string
		rules []version.Rule
		os    string
		want  bool
	}{
		{
			name: "no rules includes",
			os:   "linux",
			want: true,
		},
		{
			name:  "bare allow includes everywhere",
			rules: []version.Rule{allow("")},
			os:    "windows",
			want:  true,
		},
		{
			name:  "os allow includes matching os",
			rules: []version.Rule{allow("osx")},
			os:    "osx",
			want:  true,
		},
		{
			name:  "os allow excludes other os",
			rules: []version.Rule{allow("osx")},
			os:    "linux",
			want:  false,
		},
		{
			name:  "disallow overrides earlier allow",
			rules: []version.Rule{allow(""), disallow("windows")},
			os:    "windows",
			want:  false,
		},
		{
			name:  "disallow for other os keeps allow",
			rules: []version.Rule{allow(""), disallow("windows")},
			os:    "linux",
			want:  true,
		},
		{
			name:  "rules present but none matching excludes",
			rules: []version.Rule{allow("osx")},
			os:    "windows",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.rules, tt.os); got != tt.want {
				t.Errorf("Allowed(%v, %s) = %v, want %v", tt.rules, tt.os, got, tt.want)
			}
		})
	}
}

// TestCurrentOS tests the GOOS mapping stays within the rule vocabulary
func TestCurrentOS(t *testing.T) {
	switch got := CurrentOS(); got {
	case "linux", "osx", "windows":
	default:
		t.Errorf("CurrentOS() = %q, outside rule vocabulary", got)
	}
}
