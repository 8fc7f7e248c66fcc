package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var (
	ErrUnknownNode     = errors.New("levels: unknown node")
	ErrUnknownPlatform = errors.New("levels: unknown platform")
	ErrUnknownBehavior = errors.New("levels: unknown behavior")
	ErrInvalidLevel    = errors.New("levels: invalid level")
)

// Level is a hand-authored layout: platforms, the waypoint nodes that sit
// on them, the edges between nodes and where agents start.
type Level struct {
	Name      string     `json:"name"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Platforms []Platform `json:"platforms"`
	Nodes     []Node     `json:"nodes"`
	Edges     [][2]int   `json:"edges"`
	Agents    []Agent    `json:"agents"`
}

// Platform is measured from its top-left corner. A zero H takes the
// prefab default height.
type Platform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h,omitempty"`
	Material string  `json:"material"`
	Behavior string  `json:"behavior,omitempty"`
	// Range is how far a moving platform travels right of X.
	Range float64 `json:"range,omitempty"`
}

// Node sits on a platform at absolute X. Its Y is derived from the
// platform top.
type Node struct {
	Platform int     `json:"platform"`
	X        float64 `json:"x"`
}

type Agent struct {
	Name string `json:"name"`
	Node int    `json:"node"`
}

var behaviors = map[string]bool{"": true, "static": true, "moving": true, "falling": true, "spring": true}

// List returns embedded level names without extension, sorted.
func List() ([]string, error) {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("levels: list: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Load reads and validates an embedded level by name.
func Load(name string) (*Level, error) {
	file := name
	if path.Ext(file) != ".json" {
		file += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, file)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", file, err)
	}
	return Parse(data)
}

// Parse decodes and validates a level document.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks dimensions and every cross reference.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("levels: %s: dimensions %vx%v: %w", l.Name, l.Width, l.Height, ErrInvalidLevel)
	}
	for i, p := range l.Platforms {
		if p.W <= 0 || p.H < 0 {
			return fmt.Errorf("levels: %s: platform %d size %vx%v: %w", l.Name, i, p.W, p.H, ErrInvalidLevel)
		}
		if !behaviors[p.Behavior] {
			return fmt.Errorf("levels: %s: platform %d behavior %q: %w", l.Name, i, p.Behavior, ErrUnknownBehavior)
		}
	}
	for i, n := range l.Nodes {
		if n.Platform < 0 || n.Platform >= len(l.Platforms) {
			return fmt.Errorf("levels: %s: node %d platform %d: %w", l.Name, i, n.Platform, ErrUnknownPlatform)
		}
	}
	for _, e := range l.Edges {
		for _, h := range e {
			if h < 0 || h >= len(l.Nodes) {
				return fmt.Errorf("levels: %s: edge %v: %w", l.Name, e, ErrUnknownNode)
			}
		}
		if e[0] == e[1] {
			return fmt.Errorf("levels: %s: edge %v loops: %w", l.Name, e, ErrInvalidLevel)
		}
	}
	for _, a := range l.Agents {
		if a.Node < 0 || a.Node >= len(l.Nodes) {
			return fmt.Errorf("levels: %s: agent %q node %d: %w", l.Name, a.Name, a.Node, ErrUnknownNode)
		}
	}
	return nil
}

// Floor is the bottom edge of the lowest platform.
func (l *Level) Floor(defaultHeight float64) float64 {
	floor := 0.0
	for _, p := range l.Platforms {
		h := p.H
		if h == 0 {
			h = defaultHeight
		}
		if bottom := p.Y + h; bottom > floor {
			floor = bottom
		}
	}
	return floor
}
