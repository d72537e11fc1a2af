package syncstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Missing(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope", "state.json"))
	require.NoError(t, err)
	assert.False(t, s.WasApplied(CategoryDependency, "a:b"))
	assert.Empty(t, s.Applied(CategoryDependency))
}

func TestOpen_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.False(t, s.WasApplied(CategoryJDBC, "java:app/jdbc/X"))
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestRecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".jakartagen", "state.json")
	s, err := Open(path)
	require.NoError(t, err)

	s.RecordApplied(CategoryDependency, "org.postgresql:postgresql")
	s.RecordApplied(CategoryDependency, "jakarta.platform:jakarta.jakartaee-api")
	s.RecordApplied(CategoryJDBC, "java:app/jdbc/Sample")
	s.SetLastRun("run-1")
	assert.True(t, s.Dirty())
	require.NoError(t, s.Save())
	assert.False(t, s.Dirty())

	again, err := Open(path)
	require.NoError(t, err)
	assert.True(t, again.WasApplied(CategoryJDBC, "java:app/jdbc/Sample"))
	assert.Equal(t, []string{"jakarta.platform:jakarta.jakartaee-api", "org.postgresql:postgresql"}, again.Applied(CategoryDependency))
	assert.Equal(t, "run-1", again.LastRun())

	again.RecordApplied(CategoryJDBC, "java:app/jdbc/Sample")
	assert.False(t, again.Dirty())
}

func TestSave_StableOutput(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, values ...string) []byte {
		path := filepath.Join(dir, name)
		s, err := Open(path)
		require.NoError(t, err)
		for _, v := range values {
			s.RecordApplied(CategoryEntity, v)
		}
		require.NoError(t, s.Save())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, write("a.json", "B", "A", "C"), write("b.json", "C", "B", "A"))
}

func TestSave_NoChangesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
