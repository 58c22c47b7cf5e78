// Package store persists workspace credentials to a single JSON document in
// the slackctl configuration directory. Access is read-modify-write per call;
// the CLI is single-user and single-process, so concurrent external mutation
// of the file is an accepted last-writer-wins race.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/inovacc/slackctl/internal/application"
	"github.com/inovacc/slackctl/internal/encoding"
	"github.com/inovacc/slackctl/internal/model"
)

const credentialsFileName = "credentials.json"

var (
	// ErrWorkspaceNotFound is returned when no credential matches the
	// requested workspace ID or name.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrNoWorkspaces is returned when a default is requested from an
	// empty store.
	ErrNoWorkspaces = errors.New("no workspaces configured")
)

// State is the on-disk shape of the credential store.
type State struct {
	// DefaultWorkspaceID points at the workspace used when no identifier
	// is given. Empty only when Workspaces is empty.
	DefaultWorkspaceID string `json:"default_workspace_id,omitempty"`

	// Workspaces maps workspace ID to its credential
	Workspaces map[string]model.Credential `json:"workspaces"`
}

// Store reads and writes the credential file.
type Store struct {
	path string
}

// New returns a store rooted in the application configuration directory.
func New() (*Store, error) {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return nil, err
	}

	return &Store{path: filepath.Join(dir, credentialsFileName)}, nil
}

// NewAtPath returns a store backed by an explicit file path. Used by tests.
func NewAtPath(path string) *Store {
	return &Store{path: path}
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted state. A missing, unreadable, or corrupt file
// degrades to an empty store so a damaged credential file behaves like a
// first run instead of wedging every command.
func (s *Store) Load() State {
	state, err := encoding.LoadJSON[State](s.path)
	if err != nil || state == nil {
		return State{Workspaces: map[string]model.Credential{}}
	}

	if state.Workspaces == nil {
		state.Workspaces = map[string]model.Credential{}
	}

	return *state
}

// Save writes the state with owner-only permissions.
func (s *Store) Save(state State) error {
	return encoding.SaveJSON(s.path, state)
}

// Add inserts or replaces a credential keyed by its workspace ID. The first
// credential ever added becomes the default.
func (s *Store) Add(cred model.Credential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("invalid credential: %w", err)
	}

	state := s.Load()

	wasEmpty := len(state.Workspaces) == 0
	state.Workspaces[cred.WorkspaceID] = cred

	if wasEmpty || state.DefaultWorkspaceID == "" {
		state.DefaultWorkspaceID = cred.WorkspaceID
	}

	return s.Save(state)
}

// Remove deletes a credential. If the removed entry was the default, the
// default is repointed to the first remaining workspace ID in sorted order,
// or cleared when none remain.
func (s *Store) Remove(workspaceID string) error {
	state := s.Load()

	if _, ok := state.Workspaces[workspaceID]; !ok {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, workspaceID)
	}

	delete(state.Workspaces, workspaceID)

	if state.DefaultWorkspaceID == workspaceID {
		state.DefaultWorkspaceID = firstWorkspaceID(state.Workspaces)
	}

	return s.Save(state)
}

// SetDefault records the default workspace. Fails if the ID is not present.
func (s *Store) SetDefault(workspaceID string) error {
	state := s.Load()

	if _, ok := state.Workspaces[workspaceID]; !ok {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, workspaceID)
	}

	state.DefaultWorkspaceID = workspaceID

	return s.Save(state)
}

// Resolve finds a credential. With an empty identifier it returns the
// recorded default. Otherwise it matches the workspace ID key space first,
// then falls back to a scan of workspace display names.
func (s *Store) Resolve(identifier string) (model.Credential, error) {
	state := s.Load()

	if identifier == "" {
		if state.DefaultWorkspaceID == "" {
			return model.Credential{}, ErrNoWorkspaces
		}

		cred, ok := state.Workspaces[state.DefaultWorkspaceID]
		if !ok {
			return model.Credential{}, fmt.Errorf("%w: default %s", ErrWorkspaceNotFound, state.DefaultWorkspaceID)
		}

		return cred, nil
	}

	if cred, ok := state.Workspaces[identifier]; ok {
		return cred, nil
	}

	for _, id := range sortedWorkspaceIDs(state.Workspaces) {
		if state.Workspaces[id].WorkspaceName == identifier {
			return state.Workspaces[id], nil
		}
	}

	return model.Credential{}, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, identifier)
}

// ListAll returns all credentials ordered by workspace ID.
func (s *Store) ListAll() []model.Credential {
	state := s.Load()

	creds := make([]model.Credential, 0, len(state.Workspaces))
	for _, id := range sortedWorkspaceIDs(state.Workspaces) {
		creds = append(creds, state.Workspaces[id])
	}

	return creds
}

// DefaultWorkspaceID returns the recorded default, or empty.
func (s *Store) DefaultWorkspaceID() string {
	return s.Load().DefaultWorkspaceID
}

// ClearAll removes every credential and the default pointer.
func (s *Store) ClearAll() error {
	return s.Save(State{Workspaces: map[string]model.Credential{}})
}

func sortedWorkspaceIDs(workspaces map[string]model.Credential) []string {
	ids := make([]string, 0, len(workspaces))
	for id := range workspaces {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func firstWorkspaceID(workspaces map[string]model.Credential) string {
	ids := sortedWorkspaceIDs(workspaces)
	if len(ids) == 0 {
		return ""
	}

	return ids[0]
}
