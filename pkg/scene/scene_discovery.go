package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Load
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // Name plus variant
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the TOML file (file type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// BuiltInScenes lists the scenes compiled into the binary
func BuiltInScenes() []SceneInfo {
	builtIns := []struct {
		id    string
		build func() *Scene
	}{
		{"default", NewDefaultScene},
		{"random", func() *Scene { return NewRandomScene(42) }},
		{"single-sphere", NewSingleSphereScene},
	}

	infos := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		s := b.build()
		infos = append(infos, SceneInfo{
			ID:          b.id,
			Name:        titleCase(b.id),
			DisplayName: titleCase(b.id),
			Description: s.Description,
			Group:       builtInGroup,
			Type:        "builtin",
		})
	}
	return infos
}

// ListFileScenes scans dir for .toml scene files. A missing directory yields no scenes.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the leading comment block of a scene file.
// Recognized lines are "# Scene:", "# Variant:", "# Description:" and "# Group:".
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			info.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
		case strings.HasPrefix(content, "Variant:"):
			info.Variant = strings.TrimSpace(strings.TrimPrefix(content, "Variant:"))
		case strings.HasPrefix(content, "Description:"):
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			info.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	if info.Variant != "" {
		info.DisplayName = fmt.Sprintf("%s - %s", info.Name, info.Variant)
	} else {
		info.DisplayName = info.Name
	}

	return info, scanner.Err()
}

// ListAllScenes returns built-in scenes and the scene files in dir, grouped by category.
// Built-in scenes come first, then the remaining groups alphabetically.
func ListAllScenes(dir string) ([]SceneGroup, error) {
	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return nil, err
	}

	groupMap := make(map[string][]SceneInfo)
	for _, info := range append(BuiltInScenes(), fileScenes...) {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for name := range groupMap {
		if name != builtInGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	var groups []SceneGroup
	if builtIns, ok := groupMap[builtInGroup]; ok {
		groups = append(groups, SceneGroup{Name: builtInGroup, Scenes: builtIns})
	}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}

	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "single-sphere" -> "Single Sphere"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
