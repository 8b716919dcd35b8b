// pkg/sdist/constants.go
package sdist

// Format is a source distribution archive format
type Format string

const (
	FormatTarGz  Format = "tar.gz"
	FormatTarXz  Format = "tar.xz"
	FormatTarZst Format = "tar.zst"
	FormatTarBz2 Format = "tar.bz2"
	FormatTar    Format = "tar"
	FormatZip    Format = "zip"
)

// suffixes maps file name suffixes to formats, longest first
var suffixes = []struct {
	suffix string
	format Format
}{
	{".tar.gz", FormatTarGz},
	{".tar.xz", FormatTarXz},
	{".tar.zst", FormatTarZst},
	{".tar.bz2", FormatTarBz2},
	{".tgz", FormatTarGz},
	{".txz", FormatTarXz},
	{".tar", FormatTar},
	{".zip", FormatZip},
	{".whl", FormatZip},
}

// maxFileSize bounds a single extracted entry
const maxFileSize = 1 << 30
