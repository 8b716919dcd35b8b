package setuppy

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("literal arguments", func(t *testing.T) {
		m, err := Parse([]byte(`setup(name="simple-python", version='1.2.3', packages=['a', "b"], zip_safe=False)`))
		require.NoError(t, err)

		name, ok := m.Get("name")
		require.True(t, ok)
		assert.Equal(t, ValueString, name.Kind)
		assert.Equal(t, "simple-python", name.Str)

		version, _ := m.Get("version")
		assert.Equal(t, "1.2.3", version.Str)
		assert.Equal(t, "'", version.Quote)

		packages, _ := m.Get("packages")
		assert.Equal(t, []string{"a", "b"}, packages.Strings())

		zipSafe, _ := m.Get("zip_safe")
		assert.Equal(t, ValueName, zipSafe.Kind)
		assert.Equal(t, "False", zipSafe.Raw)
	})

	t.Run("unterminated call", func(t *testing.T) {
		m, err := Parse([]byte(`setup(name="simple-python",version="1.2.3"`))
		require.NoError(t, err)
		version, ok := m.Get("version")
		require.True(t, ok)
		assert.Equal(t, "1.2.3", version.Str)
	})

	t.Run("no setup call", func(t *testing.T) {
		_, err := Parse([]byte("import setuptools\n"))
		assert.ErrorContains(t, err, "no setup() call found")
	})

	t.Run("ignores def setup and strings", func(t *testing.T) {
		src := `
def setup(x):
    pass

NOTE = "setup(name='wrong')"
# setup(name='commented')
setuptools.setup(name='right')
`
		m, err := Parse([]byte(src))
		require.NoError(t, err)
		name, _ := m.Get("name")
		assert.Equal(t, "right", name.Str)
	})

	t.Run("strings", func(t *testing.T) {
		src := `setup(
    a="""triple
quoted""",
    b=r'raw\n',
    c='esc\'aped\tx',
    d=("implicit "
       'concat'),  # trailing comment
    e=u"unicode",
)`
		m, err := Parse([]byte(src))
		require.NoError(t, err)

		want := map[string]string{
			"a": "triple\nquoted",
			"b": `raw\n`,
			"c": "esc'aped\tx",
			"d": "implicit concat",
			"e": "unicode",
		}
		for key, value := range want {
			v, ok := m.Get(key)
			require.True(t, ok, key)
			assert.Equal(t, ValueString, v.Kind, key)
			assert.Equal(t, value, v.Str, key)
		}
	})

	t.Run("calls dicts and tuples", func(t *testing.T) {
		src := `setup(
    packages=setuptools.find_packages(where="src", exclude=("tests", "tests.*")),
    extras_require={"dev": ["pytest"], 'docs': ('sphinx',)},
    classifiers=(),
    scripts=('bin/tool',),
)`
		m, err := Parse([]byte(src))
		require.NoError(t, err)

		packages, _ := m.Get("packages")
		require.Equal(t, ValueCall, packages.Kind)
		assert.Equal(t, "setuptools.find_packages", packages.Func)
		where, ok := getArg(packages.Args, "where", 0)
		require.True(t, ok)
		assert.Equal(t, "src", where.Str)
		exclude, ok := getArg(packages.Args, "exclude", 1)
		require.True(t, ok)
		assert.Equal(t, []string{"tests", "tests.*"}, exclude.Strings())

		extras, _ := m.Get("extras_require")
		require.Equal(t, ValueDict, extras.Kind)
		assert.Equal(t, []string{"pytest"}, extras.Dict["dev"].Strings())
		assert.Equal(t, []string{"sphinx"}, extras.Dict["docs"].Strings())

		classifiers, _ := m.Get("classifiers")
		assert.Equal(t, ValueList, classifiers.Kind)
		assert.Empty(t, classifiers.Items)

		scripts, _ := m.Get("scripts")
		assert.Equal(t, []string{"bin/tool"}, scripts.Strings())
	})

	t.Run("helpers and assignments", func(t *testing.T) {
		src := `import os

here = os.path.abspath(os.path.dirname(__file__))
VERSION = '2.0.1'


def read_version():
    with open(os.path.join(here, 'src', 'VERSION')) as f:
        return f.read().strip()


def reqs():
    return (Path(__file__).parent / "requirements.txt").read_text().splitlines()


setup(version=VERSION)
`
		m, err := Parse([]byte(src))
		require.NoError(t, err)

		assert.Equal(t, "src/VERSION", m.Helpers["read_version"].File)
		assert.Equal(t, "requirements.txt", m.Helpers["reqs"].File)

		version, _ := m.Get("version")
		assert.Equal(t, ValueName, version.Kind)
		resolved := m.Resolve(version)
		assert.Equal(t, ValueString, resolved.Kind)
		assert.Equal(t, "2.0.1", resolved.Str)
	})
}

func TestParseLargeLiterals(t *testing.T) {
	body := strings.Repeat("a", 256*1024)
	comment := "# " + strings.Repeat("b", 256*1024) + "\n"
	src := comment + `setup(name='x', version='1.0', long_description="""` + body + `""")`

	start := time.Now()
	m, err := Parse([]byte(src))
	elapsed := time.Since(start)
	require.NoError(t, err)

	desc, ok := m.Get("long_description")
	require.True(t, ok)
	assert.Equal(t, ValueString, desc.Kind)
	assert.Len(t, desc.Str, len(body))

	version, _ := m.Get("version")
	assert.Equal(t, "1.0", version.Str)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestEncodeLiteral(t *testing.T) {
	assert.Equal(t, `'1.0'`, encodeLiteral("1.0", "'"))
	assert.Equal(t, `"1.0"`, encodeLiteral("1.0", `u"`))
	assert.Equal(t, `"""1.0"""`, encodeLiteral("1.0", `"""`))
	assert.Equal(t, `'it\'s'`, encodeLiteral("it's", "'"))
}
