package world

import (
	"fmt"
	"os"

	"github.com/ethaniccc/float32-cube/cube"
	"gopkg.in/yaml.v3"
)

// MapFile is the YAML layout of a BoxWorld.
type MapFile struct {
	Name    string      `yaml:"name"`
	Brushes []BrushFile `yaml:"brushes"`
}

// BrushFile is a single brush in a MapFile.
type BrushFile struct {
	Min      [3]float32 `yaml:"min"`
	Max      [3]float32 `yaml:"max"`
	Contents []string   `yaml:"contents"`
	Surface  []string   `yaml:"surface"`
	Material string     `yaml:"material"`
	Entity   int32      `yaml:"entity"`
}

// LoadMap reads a YAML map file from path.
func LoadMap(path string) (*BoxWorld, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	return ParseMap(data)
}

// ParseMap decodes a YAML map.
func ParseMap(data []byte) (*BoxWorld, error) {
	var file MapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}

	w := NewBoxWorld()
	for i, bf := range file.Brushes {
		contents, err := ParseContents(bf.Contents)
		if err != nil {
			return nil, fmt.Errorf("brush %d: %w", i, err)
		}
		if len(bf.Contents) == 0 {
			contents = ContentsSolid
		}
		surface, err := ParseSurface(bf.Surface)
		if err != nil {
			return nil, fmt.Errorf("brush %d: %w", i, err)
		}
		material, err := ParseMaterial(bf.Material)
		if err != nil {
			return nil, fmt.Errorf("brush %d: %w", i, err)
		}
		for axis := 0; axis < 3; axis++ {
			if bf.Min[axis] >= bf.Max[axis] {
				return nil, fmt.Errorf("brush %d: min %v is not below max %v", i, bf.Min, bf.Max)
			}
		}
		w.Add(Brush{
			Box:      cube.Box(bf.Min[0], bf.Min[1], bf.Min[2], bf.Max[0], bf.Max[1], bf.Max[2]),
			Contents: contents,
			Surface:  surface,
			Material: material,
			Entity:   bf.Entity,
		})
	}
	return w, nil
}
