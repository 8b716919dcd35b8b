// pkg/setuppy/constants.go
package setuppy

const (
	// DescriptorName is the conventional manifest file name
	DescriptorName = "setup.py"

	// DefaultRequirementsFile is read when install_requires comes from a helper
	// whose file could not be determined
	DefaultRequirementsFile = "requirements.txt"
)

// DefaultVersionFiles are tried in order when version comes from a helper
// whose file could not be determined
var DefaultVersionFiles = []string{"version.txt", "VERSION"}

// Package discovery helpers understood in packages=
const (
	FuncFindPackages          = "find_packages"
	FuncFindNamespacePackages = "find_namespace_packages"
)

// defaultPackageExcludes are always applied by find_packages
var defaultPackageExcludes = []string{"ez_setup", "*__pycache__"}
