package island

import (
	"errors"
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// AssetLoader resolves model and texture paths from the scene configuration.
type AssetLoader interface {
	// LoadModel returns the meshes of a model, one per material. A partial
	// result may come back together with an error describing what failed.
	LoadModel(path string) ([]*Mesh, error)
	LoadTexture(path string) (*ebiten.Image, error)
}

// FileAssets loads Wavefront OBJ models and PNG or JPEG textures from disk.
// Relative paths are resolved against Dir. Textures are cached by resolved
// path.
type FileAssets struct {
	Dir string

	textures map[string]*ebiten.Image
}

// NewFileAssets returns a loader rooted at dir.
func NewFileAssets(dir string) *FileAssets {
	return &FileAssets{Dir: dir, textures: make(map[string]*ebiten.Image)}
}

func (a *FileAssets) resolve(path string) string {
	if filepath.IsAbs(path) || a.Dir == "" {
		return path
	}
	return filepath.Join(a.Dir, path)
}

// LoadTexture decodes the image at path into an ebiten image.
func (a *FileAssets) LoadTexture(path string) (*ebiten.Image, error) {
	return a.texture(a.resolve(path))
}

// texture loads an already resolved path through the cache.
func (a *FileAssets) texture(full string) (*ebiten.Image, error) {
	if img, ok := a.textures[full]; ok {
		return img, nil
	}
	img, _, err := ebitenutil.NewImageFromFile(full)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", full, err)
	}
	if a.textures == nil {
		a.textures = make(map[string]*ebiten.Image)
	}
	a.textures[full] = img
	return img, nil
}

// LoadModel parses the OBJ file at path along with its material libraries
// and diffuse textures. Material and texture failures are joined into the
// returned error while the meshes are still returned.
func (a *FileAssets) LoadModel(path string) ([]*Mesh, error) {
	full := a.resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	defer f.Close()

	model, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", full, err)
	}

	dir := filepath.Dir(full)
	var errs []error
	for _, lib := range model.MaterialLibs {
		mats, err := loadMTL(filepath.Join(dir, lib))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		model.ApplyMaterials(mats)
	}
	for _, m := range model.Meshes {
		if m.Material.TexturePath == "" {
			continue
		}
		tex := m.Material.TexturePath
		if !filepath.IsAbs(tex) {
			tex = filepath.Join(dir, tex)
		}
		img, err := a.texture(tex)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		m.Material.Texture = img
	}
	return model.Meshes, errors.Join(errs...)
}

func loadMTL(path string) (map[string]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	defer f.Close()
	mats, err := ParseMTL(f)
	if err != nil {
		return nil, fmt.Errorf("load materials %s: %w", path, err)
	}
	return mats, nil
}
