package pathglob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for pathglob:
// - "**/" patterns match root files and nested files
// - Plain patterns keep gobwas semantics ('*' stops at '/')
// - Directory patterns with "/**" match the directory itself
// - Index reports the first matching pattern
// - Invalid patterns fail to compile

func TestPattern_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"**/*.py", "app.py", true},
		{"**/*.py", "pkg/app.py", true},
		{"**/*.py", "a/b/c/app.py", true},
		{"**/*.py", "app.pyc", false},
		{"*.py", "app.py", true},
		{"*.py", "pkg/app.py", false},
		{"node_modules/**", "node_modules/x/index.js", true},
		{"src/*.inc", "src/header.inc", true},
		{"src/*.inc", "lib/header.inc", false},
	}

	for _, tt := range tests {
		p, err := Compile(tt.pattern)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Match(tt.path), "%s ~ %s", tt.pattern, tt.path)
		assert.Equal(t, tt.pattern, p.String())
	}
}

func TestSet(t *testing.T) {
	t.Parallel()

	set, err := CompileAll([]string{"**/*.inc", "vendor/**", "*.min.js"})
	require.NoError(t, err)

	assert.Equal(t, 0, set.Index("lib/x.inc"))
	assert.Equal(t, 1, set.Index("vendor/a/b.go"))
	assert.Equal(t, 2, set.Index("app.min.js"))
	assert.Equal(t, -1, set.Index("main.py"))

	assert.True(t, set.MatchDir("vendor"))
	assert.False(t, set.MatchDir("src"))

	var empty Set
	assert.False(t, empty.Match("anything"))
	assert.False(t, Pattern{}.Match("anything"))
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Compile("[")
	assert.Error(t, err)

	_, err = CompileAll([]string{"**/*.py", "src/["})
	assert.Error(t, err)
}
