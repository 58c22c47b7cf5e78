package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inovacc/slackctl/internal/model"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewAtPath(filepath.Join(t.TempDir(), "credentials.json"))
}

func tokenCred(id, name string) model.Credential {
	return model.Credential{
		AuthType:      model.AuthTypeToken,
		WorkspaceID:   id,
		WorkspaceName: name,
		Token:         "xoxb-" + id,
	}
}

func TestAdd_FirstCredentialBecomesDefault(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Add(tokenCred("T111", "acme")))
	require.Equal(t, "T111", s.DefaultWorkspaceID())

	// A second credential must not steal the default
	require.NoError(t, s.Add(tokenCred("T222", "globex")))
	require.Equal(t, "T111", s.DefaultWorkspaceID())
}

func TestRemove_RepointsDefault(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Add(tokenCred("T111", "acme")))
	require.NoError(t, s.Add(tokenCred("T222", "globex")))
	require.NoError(t, s.Add(tokenCred("T333", "initech")))

	require.NoError(t, s.Remove("T111"))

	// Deterministic choice: first remaining ID in sorted order
	require.Equal(t, "T222", s.DefaultWorkspaceID())

	require.NoError(t, s.Remove("T222"))
	require.NoError(t, s.Remove("T333"))
	require.Empty(t, s.DefaultWorkspaceID())
}

func TestRemove_MissingWorkspace(t *testing.T) {
	s := tempStore(t)

	err := s.Remove("T404")
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestSetDefault(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Add(tokenCred("T111", "acme")))
	require.NoError(t, s.Add(tokenCred("T222", "globex")))

	require.NoError(t, s.SetDefault("T222"))
	require.Equal(t, "T222", s.DefaultWorkspaceID())

	require.ErrorIs(t, s.SetDefault("T404"), ErrWorkspaceNotFound)
}

func TestResolve(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Add(tokenCred("T111", "acme")))
	require.NoError(t, s.Add(tokenCred("T222", "globex")))

	tests := []struct {
		name       string
		identifier string
		wantID     string
		wantErr    error
	}{
		{"empty resolves default", "", "T111", nil},
		{"exact ID match", "T222", "T222", nil},
		{"name fallback", "globex", "T222", nil},
		{"miss", "hooli", "", ErrWorkspaceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := s.Resolve(tt.identifier)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantID, cred.WorkspaceID)
		})
	}
}

func TestResolve_EmptyStore(t *testing.T) {
	s := tempStore(t)

	_, err := s.Resolve("")
	require.ErrorIs(t, err, ErrNoWorkspaces)
}

func TestLoad_CorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0600))

	s := NewAtPath(path)
	state := s.Load()

	require.Empty(t, state.Workspaces)
	require.Empty(t, state.DefaultWorkspaceID)

	// And the store is usable again
	require.NoError(t, s.Add(tokenCred("T111", "acme")))
	cred, err := s.Resolve("")
	require.NoError(t, err)
	require.Equal(t, "T111", cred.WorkspaceID)
}

func TestListAll_Sorted(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Add(tokenCred("T333", "c")))
	require.NoError(t, s.Add(tokenCred("T111", "a")))
	require.NoError(t, s.Add(tokenCred("T222", "b")))

	creds := s.ListAll()
	require.Len(t, creds, 3)
	require.Equal(t, "T111", creds[0].WorkspaceID)
	require.Equal(t, "T222", creds[1].WorkspaceID)
	require.Equal(t, "T333", creds[2].WorkspaceID)
}

func TestClearAll(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Add(tokenCred("T111", "acme")))
	require.NoError(t, s.ClearAll())

	require.Empty(t, s.ListAll())
	require.Empty(t, s.DefaultWorkspaceID())
}

func TestAdd_RejectsInvalidCredential(t *testing.T) {
	s := tempStore(t)

	err := s.Add(model.Credential{AuthType: model.AuthTypeToken, WorkspaceID: "T1"})
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrEmptyCredential))
}
