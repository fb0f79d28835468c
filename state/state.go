package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"stackforge/errors"
)

const (
	packageName = "state"

	// Version is the ledger schema version
	Version = 1
)

// Record is one provisioned resource: its logical identity, the AWS
// identifier returned at creation, and the attributes teardown needs
type Record struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Key returns the planner key of the record
func (r Record) Key() string {
	return r.Type + "." + r.Name
}

// State is the JSON ledger of everything the applier has created and not
// yet torn down
type State struct {
	Version   int       `json:"version"`
	StackName string    `json:"stack_name"`
	Region    string    `json:"region"`
	Serial    int       `json:"serial"`
	UpdatedAt time.Time `json:"updated_at"`
	Resources []Record  `json:"resources"`
}

// New returns an empty ledger for a stack
func New(stackName, region string) *State {
	return &State{
		Version:   Version,
		StackName: stackName,
		Region:    region,
	}
}

// Load reads a ledger from disk. A missing file yields an empty ledger so
// a first apply starts clean.
func Load(path, stackName, region string) (*State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().With(zap.String("package", packageName)).Info("No state file found, starting empty",
				zap.String("operation", "state_load"),
				zap.String("path", path),
			)
			return New(stackName, region), nil
		}
		return nil, errors.New(errors.ErrState, "failed to read state file",
			map[string]interface{}{
				"path": path,
			}, err)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New(errors.ErrState, "failed to decode state file",
			map[string]interface{}{
				"path": path,
			}, err)
	}
	if s.StackName != stackName {
		return nil, errors.New(errors.ErrState, "state file belongs to a different stack",
			map[string]interface{}{
				"path":     path,
				"expected": stackName,
				"actual":   s.StackName,
			}, nil)
	}
	return &s, nil
}

// Save writes the ledger atomically: temp file in the same directory,
// then rename. The serial is bumped on every save.
func (s *State) Save(path string) error {
	s.Serial++
	s.UpdatedAt = time.Now().UTC()

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.New(errors.ErrState, "failed to encode state",
			map[string]interface{}{
				"path": path,
			}, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stackforge-state-*")
	if err != nil {
		return errors.New(errors.ErrState, "failed to create temp state file",
			map[string]interface{}{
				"dir": dir,
			}, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.New(errors.ErrState, "failed to write temp state file",
			map[string]interface{}{
				"path": tmpName,
			}, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.New(errors.ErrState, "failed to close temp state file",
			map[string]interface{}{
				"path": tmpName,
			}, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.New(errors.ErrState, "failed to replace state file",
			map[string]interface{}{
				"path": path,
			}, err)
	}
	return nil
}

// Put inserts or replaces the record for a resource
func (s *State) Put(r Record) {
	for i, existing := range s.Resources {
		if existing.Type == r.Type && existing.Name == r.Name {
			s.Resources[i] = r
			return
		}
	}
	s.Resources = append(s.Resources, r)
}

// Remove drops the record for a resource, if present
func (s *State) Remove(resourceType, name string) {
	for i, existing := range s.Resources {
		if existing.Type == resourceType && existing.Name == name {
			s.Resources = append(s.Resources[:i], s.Resources[i+1:]...)
			return
		}
	}
}

// Lookup finds the record for a resource
func (s *State) Lookup(resourceType, name string) (Record, bool) {
	for _, existing := range s.Resources {
		if existing.Type == resourceType && existing.Name == name {
			return existing, true
		}
	}
	return Record{}, false
}

// Empty reports whether the ledger tracks no resources
func (s *State) Empty() bool {
	return len(s.Resources) == 0
}
