package depot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	root := t.TempDir()

	file := filepath.Join(root, "a.zip")
	require.NoError(t, os.WriteFile(file, []byte("payload"), 0o644))
	dir := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(dir, 0o755))

	t.Run("regular_file", func(t *testing.T) {
		class, info, err := Classify(root, file)
		require.NoError(t, err)
		assert.Equal(t, ClassFile, class)
		assert.EqualValues(t, 7, info.Size())
	})

	t.Run("directory", func(t *testing.T) {
		class, _, err := Classify(root, dir)
		require.NoError(t, err)
		assert.Equal(t, ClassDir, class)
	})

	t.Run("missing", func(t *testing.T) {
		class, info, err := Classify(root, filepath.Join(root, "nope"))
		require.NoError(t, err)
		assert.Equal(t, ClassMissing, class)
		assert.Nil(t, info)
	})
}

func TestClassifySymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(root, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("inside"), 0o644))
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("outside"), 0o644))

	inside := filepath.Join(root, "link-in")
	escaping := filepath.Join(root, "link-out")
	dangling := filepath.Join(root, "link-dangling")
	require.NoError(t, os.Symlink(target, inside))
	require.NoError(t, os.Symlink(secret, escaping))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), dangling))

	t.Run("link_inside_root_is_its_target", func(t *testing.T) {
		class, _, err := Classify(root, inside)
		require.NoError(t, err)
		assert.Equal(t, ClassFile, class)
	})

	t.Run("link_escaping_root_is_missing", func(t *testing.T) {
		class, _, err := Classify(root, escaping)
		require.NoError(t, err)
		assert.Equal(t, ClassMissing, class)
	})

	t.Run("dangling_link_is_missing", func(t *testing.T) {
		class, _, err := Classify(root, dangling)
		require.NoError(t, err)
		assert.Equal(t, ClassMissing, class)
	})
}
