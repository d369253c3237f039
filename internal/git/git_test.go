package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/src/pkg/Calc.kt b/src/pkg/Calc.kt
index 1111111..2222222 100644
--- a/src/pkg/Calc.kt
+++ b/src/pkg/Calc.kt
@@ -3 +3,2 @@ fun inc(x: Int): Int {
-    return x + 1
+    val y = x + 1
+    return y
@@ -10,2 +11,0 @@
-// gone
-// gone
diff --git a/README.md b/README.md
index 3333333..4444444 100644
--- a/README.md
+++ b/README.md
@@ -1 +1 @@
-old
+new
diff --git a/src/pkg/Old.kt b/src/pkg/Old.kt
deleted file mode 100644
index 5555555..0000000
--- a/src/pkg/Old.kt
+++ /dev/null
@@ -1,2 +0,0 @@
-package pkg
-fun old() {}
`

func TestParseDiff(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, "src/pkg/Calc.kt", changes[0].Path)
	assert.Equal(t, []int{3, 4}, changes[0].ChangedLines)
	assert.False(t, changes[0].Deleted)

	assert.Equal(t, []int{1}, changes[1].ChangedLines)

	assert.True(t, changes[2].Deleted)
	assert.Empty(t, changes[2].ChangedLines)
}

func TestParseDiffMalformedHunk(t *testing.T) {
	_, err := parseDiff([]byte("diff --git a/x.kt b/x.kt\n@@ nonsense @@\n"))
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)

	updated, deleted := Paths("/repo", changes, ".kt", ".ir.json")
	assert.Equal(t, []string{filepath.Join("/repo", "src/pkg/Calc.kt")}, updated)
	assert.Equal(t, []string{filepath.Join("/repo", "src/pkg/Old.kt")}, deleted)

	updated, _ = Paths("/repo", changes, ".md")
	assert.Equal(t, []string{filepath.Join("/repo", "README.md")}, updated)
}
