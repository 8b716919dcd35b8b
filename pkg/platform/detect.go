// pkg/platform/detect.go
package platform

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Package manager families a registry entry can target
const (
	BackendApk    = "apk"
	BackendApt    = "apt"
	BackendDnf    = "dnf"
	BackendPacman = "pacman"
	BackendZypper = "zypper"
	BackendBrew   = "brew"
	BackendWinget = "winget"
	BackendNix    = "nix"
)

// Backends lists every supported package manager family
var Backends = []string{BackendApk, BackendApt, BackendDnf, BackendPacman, BackendZypper, BackendBrew, BackendWinget, BackendNix}

// OSReleasePath is read to identify the Linux distribution
var OSReleasePath = "/etc/os-release"

// Platform represents the detected system platform
type Platform struct {
	OS        string `yaml:"os" json:"os"`                             // linux, darwin, windows
	Arch      string `yaml:"arch" json:"arch"`                         // amd64, arm64, 386, arm
	Distro    string `yaml:"distro,omitempty" json:"distro,omitempty"` // os-release ID
	Preferred string `yaml:"preferred" json:"preferred"`               // package manager family
}

// Detect detects the current platform and its package manager family
func Detect() (*Platform, error) {
	return detect(runtime.GOOS, runtime.GOARCH, OSReleasePath)
}

func detect(goos, goarch, osRelease string) (*Platform, error) {
	p := &Platform{
		OS:   goos,
		Arch: goarch,
	}

	switch goos {
	case "darwin":
		p.Preferred = BackendBrew
	case "windows":
		p.Preferred = BackendWinget
	case "linux":
		fields, err := readOSRelease(osRelease)
		if err != nil {
			if hasAnyCommand(nixCommands...) {
				p.Preferred = BackendNix
				return p, nil
			}
			return nil, fmt.Errorf("identifying linux distribution: %w", err)
		}
		p.Distro = fields["ID"]
		p.Preferred = family(append([]string{fields["ID"]}, strings.Fields(fields["ID_LIKE"])...))
		if p.Preferred == "" && hasAnyCommand(nixCommands...) {
			p.Preferred = BackendNix
		}
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}

	return p, nil
}

// family maps os-release IDs, most specific first, to a package manager family
func family(ids []string) string {
	for _, id := range ids {
		switch strings.ToLower(id) {
		case "alpine":
			return BackendApk
		case "debian", "ubuntu", "linuxmint", "pop", "raspbian":
			return BackendApt
		case "fedora", "rhel", "centos", "rocky", "almalinux", "amzn":
			return BackendDnf
		case "arch", "manjaro", "endeavouros":
			return BackendPacman
		case "opensuse", "opensuse-leap", "opensuse-tumbleweed", "sles", "suse":
			return BackendZypper
		case "nixos":
			return BackendNix
		}
	}
	return ""
}

// readOSRelease parses KEY=value lines, unquoting values
func readOSRelease(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"'`)
	}
	return fields, scanner.Err()
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	if p.Distro != "" {
		return fmt.Sprintf("%s/%s %s (preferred: %s)", p.OS, p.Arch, p.Distro, p.Preferred)
	}
	return fmt.Sprintf("%s/%s (preferred: %s)", p.OS, p.Arch, p.Preferred)
}
