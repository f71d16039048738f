package version

import (
	"encoding/json"
	"testing"
)

// TestDescriptorDecode tests decoding the documented wire format
func TestDescriptorDecode(t *testing.T) {
	raw := `{
		"id": "1.20.4",
		"type": "release",
		"mainClass": "net.minecraft.client.main.Main",
		"javaVersion": {"component": "java-runtime-gamma", "majorVersion": 17},
		"assetIndex": {"id": "12", "url": "https://example.com/12.json", "sha1": "aa", "size": 100},
		"downloads": {"client": {"url": "https://example.com/client.jar", "sha1": "bb", "size": 200}},
		"libraries": [
			{
				"name": "org.lwjgl:lwjgl:3.3.3",
				"downloads": {"artifact": {"path": "org/lwjgl/lwjgl/3.3.3/lwjgl-3.3.3.jar", "url": "https://example.com/lwjgl.jar", "sha1": "cc", "size": 300}},
				"rules": [{"action": "allow", "os": {"name": "linux"}}]
			},
			{"name": "com.example:legacy:1.0", "url": "https://repo.example.com/"}
		],
		"arguments": {"game": ["--demo"], "jvm": ["-Xss1M"]}
	}`

	var desc Descriptor
	if err := json.Unmarshal([]byte(raw), &desc); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if desc.JavaVersion.MajorVersion != 17 {
		t.Errorf("javaVersion.majorVersion = %d, want 17", desc.JavaVersion.MajorVersion)
	}
	if desc.AssetIndex.ID != "12" {
		t.Errorf("assetIndex.id = %q, want 12", desc.AssetIndex.ID)
	}
	if desc.Downloads.Client.Size != 200 {
		t.Errorf("client size = %d, want 200", desc.Downloads.Client.Size)
	}
	if desc.Libraries[0].Rules[0].OS.Name != "linux" {
		t.Errorf("rule os = %+v", desc.Libraries[0].Rules[0])
	}
	if desc.Libraries[1].URL != "https://repo.example.com/" {
		t.Errorf("legacy repo url = %q", desc.Libraries[1].URL)
	}
}

// TestArgumentListSkipsConditionalObjects tests tolerant argument decoding
func TestArgumentListSkipsConditionalObjects(t *testing.T) {
	raw := `["--username", {"rules": [{"action": "allow"}], "value": "--demo"}, "--gameDir"]`

	var args ArgumentList
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	want := []string{"--username", "--gameDir"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}
