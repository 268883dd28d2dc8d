package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WriteScene writes a scene to a YAML file
func WriteScene(s *Scene, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ReadScene reads a scene from a YAML file. Sections missing from the file
// keep their defaults.
func ReadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s := Default()
	s.Overlays, s.Layout = nil, nil
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Overlays == nil {
		s.Overlays = Default().Overlays
	}
	if s.Layout == nil {
		s.Layout = Default().Layout
	}
	return s, nil
}

// GenerateScenePath creates a timestamped scene filename in dir
func GenerateScenePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scene_%s.yaml", timestamp))
}

// FindLatestScene finds the most recently modified scene file in dir
func FindLatestScene(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenes directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var scenes []candidate
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		scenes = append(scenes, candidate{filepath.Join(dir, name), info.ModTime()})
	}

	if len(scenes) == 0 {
		return "", fmt.Errorf("no scene files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].mod.After(scenes[j].mod)
	})

	return scenes[0].path, nil
}

// Load reads path, or the newest scene in dir when path is empty. With
// neither it returns the built-in scene and an empty path. A relative frame
// directory that does not exist as given is resolved against the scene file.
func Load(path, dir string) (*Scene, string, error) {
	if path == "" {
		latest, err := FindLatestScene(dir)
		if err != nil {
			return Default(), "", nil
		}
		path = latest
	}

	s, err := ReadScene(path)
	if err != nil {
		return nil, path, err
	}
	loc := s.Sequence.Location
	if !filepath.IsAbs(loc) && !isURL(loc) {
		if _, err := os.Stat(loc); err != nil {
			s.Sequence.Location = filepath.Join(filepath.Dir(path), loc)
		}
	}
	return s, path, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
