package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davbox/davbox/internal/utils"
	json "github.com/goccy/go-json"
)

var (
	home, _          = os.UserHomeDir()
	DefaultStorePath = filepath.Join(home, ".davbox", "profiles.json")

	ErrNotFound  = errors.New("profile not found")
	ErrDuplicate = errors.New("profile name already exists")
)

// Store persists profiles as a single JSON file.
type Store struct {
	path     string
	profiles []*Profile
}

// Open reads the store at path, creating an empty one if the file
// does not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultStorePath
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	} else if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &s.profiles); err != nil {
		return nil, fmt.Errorf("read profiles %q: %w", path, err)
	}
	return s, nil
}

func (s *Store) Save() error {
	if err := utils.EnsureParent(s.path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// List returns the profiles sorted by name.
func (s *Store) List() []*Profile {
	out := make([]*Profile, len(s.profiles))
	copy(out, s.profiles)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Get finds a profile by name or ID.
func (s *Store) Get(nameOrID string) (*Profile, error) {
	for _, p := range s.profiles {
		if p.ID == nameOrID || strings.EqualFold(p.Name, nameOrID) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, nameOrID)
}

func (s *Store) Add(p *Profile) error {
	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Name, p.Name) {
			return fmt.Errorf("%w: %s", ErrDuplicate, p.Name)
		}
	}
	s.profiles = append(s.profiles, p)
	return nil
}

// Update replaces the stored profile with the same ID.
func (s *Store) Update(p *Profile) error {
	for i, existing := range s.profiles {
		if existing.ID == p.ID {
			s.profiles[i] = p
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
}

func (s *Store) Remove(nameOrID string) error {
	for i, p := range s.profiles {
		if p.ID == nameOrID || strings.EqualFold(p.Name, nameOrID) {
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, nameOrID)
}

func (s *Store) Len() int {
	return len(s.profiles)
}
