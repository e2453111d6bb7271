package profile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileProviderLoadMissing(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "resume_skills.json"), nil)

	_, err := p.Load(context.Background())
	require.ErrorIs(t, err, ErrNoProfile)
}

func TestFileProviderCreatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume_skills.json")

	p := NewFileProvider(path, nil)
	asked := 0
	p.ask = func() (string, error) {
		asked++
		return "Python, SQL, tableau, python", nil
	}

	set, err := p.GetOrCreate(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"python", "sql", "tableau"}, set.Values())
	require.Equal(t, 1, asked)

	// second call must reuse the persisted profile without re-prompting
	again, err := p.GetOrCreate(context.Background())
	require.NoError(t, err)
	require.Equal(t, set.Values(), again.Values())
	require.Equal(t, 1, asked)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var persisted []string
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Equal(t, []string{"python", "sql", "tableau"}, persisted)
}

func TestFileProviderRejectsEmptyAnswer(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "resume_skills.json"), nil)
	p.ask = func() (string, error) { return " , ,, ", nil }

	_, err := p.GetOrCreate(context.Background())
	require.Error(t, err)
}

func TestFileProviderPromptFailure(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "resume_skills.json"), nil)
	p.ask = func() (string, error) { return "", errors.New("interrupted") }

	_, err := p.GetOrCreate(context.Background())
	require.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic("python", "sql")

	set, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	empty := NewStatic()
	_, err = empty.Load(context.Background())
	require.ErrorIs(t, err, ErrNoProfile)

	set, err = empty.GetOrCreate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}
