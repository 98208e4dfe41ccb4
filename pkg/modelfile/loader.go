// Package modelfile loads JSON cuboid models and flattens them into indexed
// geometry.
package modelfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinzhu/copier"
)

// maxTextureDepth bounds "#name" indirections.
const maxTextureDepth = 10

// Loader reads models from <root>/models and textures from <root>/textures.
// Loaded models are cached by name.
type Loader struct {
	root  string
	cache map[string]*Model
}

func NewLoader(root string) *Loader {
	return &Loader{
		root:  root,
		cache: make(map[string]*Model),
	}
}

func (l *Loader) Root() string { return l.root }

// ModelPath returns the file a model name is read from.
func (l *Loader) ModelPath(name string) string {
	return filepath.Join(l.root, "models", filepath.FromSlash(name)+".json")
}

// TexturePath returns the image file of a resolved texture name.
func (l *Loader) TexturePath(texture string) string {
	return filepath.Join(l.root, "textures", filepath.FromSlash(texture)+".png")
}

// Load returns the named model with its parent chain merged in and face
// textures resolved. The returned model is shared; callers must not modify it.
func (l *Loader) Load(name string) (*Model, error) {
	return l.load(name, nil)
}

func (l *Loader) load(name string, seen []string) (*Model, error) {
	if model, ok := l.cache[name]; ok {
		return model, nil
	}
	for _, s := range seen {
		if s == name {
			return nil, fmt.Errorf("model %q: parent cycle through %s", name, strings.Join(seen, " -> "))
		}
	}

	data, err := os.ReadFile(l.ModelPath(name))
	if err != nil {
		return nil, fmt.Errorf("could not read model file: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("could not unmarshal model %q: %w", name, err)
	}
	if model.Textures == nil {
		model.Textures = make(map[string]string)
	}

	if model.Parent != "" {
		parent, err := l.load(model.Parent, append(seen, name))
		if err != nil {
			return nil, fmt.Errorf("could not load parent model '%s': %w", model.Parent, err)
		}

		// Parent elements are deep copied so resolving this model's
		// textures leaves the cached parent untouched.
		if len(model.Elements) == 0 {
			if err := copier.CopyWithOption(&model.Elements, &parent.Elements, copier.Option{DeepCopy: true}); err != nil {
				return nil, fmt.Errorf("could not copy parent elements: %w", err)
			}
		}
		for key, val := range parent.Textures {
			if _, ok := model.Textures[key]; !ok {
				model.Textures[key] = val
			}
		}
	}

	resolveTextures(&model)
	l.cache[name] = &model
	return &model, nil
}

func resolveTextures(m *Model) {
	for i := range m.Elements {
		for faceName, face := range m.Elements[i].Faces {
			resolved := ResolveTexture(face.Texture, m)
			if resolved != face.Texture {
				face.Texture = resolved
				m.Elements[i].Faces[faceName] = face
			}
		}
	}
}

// ResolveTexture follows "#variable" references through m.Textures. It gives
// up after a fixed depth or at the first unknown variable and returns the name
// reached so far.
func ResolveTexture(texture string, m *Model) string {
	for i := 0; i < maxTextureDepth && strings.HasPrefix(texture, "#"); i++ {
		resolved, ok := m.Textures[strings.TrimPrefix(texture, "#")]
		if !ok {
			break
		}
		texture = resolved
	}
	return texture
}
