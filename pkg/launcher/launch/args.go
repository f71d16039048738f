package launch

import (
	"fmt"
	"os"
	"strings"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/settings"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/version"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/utils/shellparse"
)

// AuthContext carries the account identity handed to the game
type AuthContext struct {
	Username    string
	UUID        string
	AccessToken string
	UserType    string
}

// ProxyConfig points the agent flag at a local authentication proxy
type ProxyConfig struct {
	// AgentJar is the on-disk path of the proxy agent artifact
	AgentJar string

	// Address is the local endpoint the agent redirects requests to
	Address string
}

// argInput collects everything the argument builder consumes
type argInput struct {
	Settings   *settings.Settings
	Descriptor *version.Descriptor
	Classpath  string
	NativesDir string
	Proxy      ProxyConfig
	Auth       AuthContext
	GameDir    string
	AssetsDir  string
}

// JoinClasspath joins artifact paths with the platform separator
func JoinClasspath(paths []string) string {
	return strings.Join(paths, string(os.PathListSeparator))
}

// buildArguments assembles the order-sensitive argument vector: heap
// flags, the native library path, the agent flag when a proxy is
// configured, extra JVM arguments from the settings file, descriptor
// JVM arguments, the classpath, the entry point, then the game
// argument vector.
func buildArguments(in argInput) ([]string, error) {
	args := []string{
		fmt.Sprintf("-Xms%dM", in.Settings.MemoryMinMB),
		fmt.Sprintf("-Xmx%dM", in.Settings.MemoryMaxMB),
		"-Djava.library.path=" + in.NativesDir,
	}

	if in.Proxy.AgentJar != "" {
		args = append(args, "-javaagent:"+in.Proxy.AgentJar+"="+in.Proxy.Address)
	}

	if in.Settings.JVMArgs != "" {
		extra, err := shellparse.Split(in.Settings.JVMArgs)
		if err != nil {
			return nil, fmt.Errorf("bad jvm_args setting: %w", err)
		}
		args = append(args, extra...)
	}

	if in.Descriptor.Arguments != nil {
		args = append(args, dropTemplated(in.Descriptor.Arguments.JVM)...)
	}

	args = append(args, "-cp", in.Classpath, in.Descriptor.MainClass)

	assetIndexID := ""
	if in.Descriptor.AssetIndex != nil {
		assetIndexID = in.Descriptor.AssetIndex.ID
	}
	args = append(args,
		"--username", in.Auth.Username,
		"--version", in.Descriptor.ID,
		"--gameDir", in.GameDir,
		"--assetsDir", in.AssetsDir,
		"--assetIndex", assetIndexID,
		"--uuid", in.Auth.UUID,
		"--accessToken", in.Auth.AccessToken,
		"--userType", in.Auth.UserType,
		"--versionType", in.Descriptor.Type,
	)

	if in.Descriptor.Arguments != nil {
		args = append(args, dropTemplated(in.Descriptor.Arguments.Game)...)
	}

	return args, nil
}

// dropTemplated removes ${...} placeholder entries. The fixed vector
// already carries every value the launcher owns, so a templated entry
// would duplicate it. A flag immediately followed by a templated value
// goes with it.
func dropTemplated(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if strings.Contains(args[i], "${") {
			continue
		}
		if i+1 < len(args) && strings.HasPrefix(args[i], "-") && strings.Contains(args[i+1], "${") {
			i++
			continue
		}
		out = append(out, args[i])
	}
	return out
}
