package version

import "testing"

// TestParseCoordinate tests coordinate splitting and rejection
func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Coordinate
		wantErr bool
	}{
		{
			name:  "plain",
			input: "com.google.guava:guava:31.1-jre",
			want:  Coordinate{Group: "com.google.guava", Artifact: "guava", Version: "31.1-jre"},
		},
		{
			name:  "classified",
			input: "org.lwjgl:lwjgl:3.3.3:natives-windows",
			want:  Coordinate{Group: "org.lwjgl", Artifact: "lwjgl", Version: "3.3.3", Classifier: "natives-windows"},
		},
		{
			name:    "too few segments",
			input:   "g:a",
			wantErr: true,
		},
		{
			name:    "too many segments",
			input:   "g:a:1:c:extra",
			wantErr: true,
		},
		{
			name:    "empty segment",
			input:   "g::1.0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCoordinate(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCoordinate(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCoordinate(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

// TestCoordinateRelPath tests maven-style path synthesis
func TestCoordinateRelPath(t *testing.T) {
	tests := []struct {
		coord Coordinate
		want  string
	}{
		{
			Coordinate{Group: "com.google.guava", Artifact: "guava", Version: "31.1-jre"},
			"com/google/guava/guava/31.1-jre/guava-31.1-jre.jar",
		},
		{
			Coordinate{Group: "org.lwjgl", Artifact: "lwjgl", Version: "3.3.3", Classifier: "natives-linux"},
			"org/lwjgl/lwjgl/3.3.3/lwjgl-3.3.3-natives-linux.jar",
		},
	}

	for _, tt := range tests {
		if got := tt.coord.RelPath(); got != tt.want {
			t.Errorf("RelPath() = %q, want %q", got, tt.want)
		}
	}
}

// TestCoordinateURL tests source address synthesis
func TestCoordinateURL(t *testing.T) {
	c := Coordinate{Group: "g", Artifact: "a", Version: "1.0"}

	if got := c.URL(""); got != DefaultLibraryRepo+"g/a/1.0/a-1.0.jar" {
		t.Errorf("default repo URL = %q", got)
	}
	if got := c.URL("https://repo.example.com"); got != "https://repo.example.com/g/a/1.0/a-1.0.jar" {
		t.Errorf("custom repo URL = %q", got)
	}
	if got := c.URL("https://repo.example.com/"); got != "https://repo.example.com/g/a/1.0/a-1.0.jar" {
		t.Errorf("trailing-slash repo URL = %q", got)
	}
}
