package island

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// sceneBuilder creates the top-level objects of the island scene. Failures
// to load an asset are logged and leave the object with nothing to draw; the
// object itself is always created so ObjectIDs stay stable.
type sceneBuilder struct {
	cfg    *SceneConfig
	assets AssetLoader
	log    *zap.Logger
	root   *Node
}

// buildScene returns a root node whose children are the scene objects in
// ObjectID order.
func buildScene(cfg *SceneConfig, assets AssetLoader, log *zap.Logger) *Node {
	if log == nil {
		log = zap.NewNop()
	}
	b := &sceneBuilder{cfg: cfg, assets: assets, log: log.Named("scene"), root: NewNode("root", nil)}
	if assets == nil {
		b.log.Debug("no asset loader, models and textures skipped")
	}

	b.skybox()
	b.model("island", cfg.Island)
	b.fishBanner()
	for i, f := range cfg.Fish {
		b.fish(ObjectFishOne+ObjectID(i), f)
	}
	b.ship()
	b.water()
	b.model("campfire", cfg.Campfire)
	b.sun()

	b.model("bucket", cfg.Bucket).Pickable = true
	b.model("cannon", cfg.Cannon).Collision = true
	b.model("torch", cfg.Torch).Pickable = true

	fire := b.sprite(NewNode("fire", glowingPlane("fire")), cfg.Fire)
	fire.Collision = true

	ex := cfg.Explosion
	explosion := b.sprite(NewBillboard("explosion", glowingPlane("explosion")),
		ObjectConfig{Texture: ex.Texture, Position: ex.Position, Size: ex.Size})
	explosion.Visible = false
	explosion.Collision = true

	if n := b.root.NumChildren(); n != int(objectCount)-1 {
		b.log.Warn("unexpected object count", zap.Int("objects", n), zap.Int("want", int(objectCount)-1))
	}
	return b.root
}

// add places n as the next top-level object and logs its id.
func (b *sceneBuilder) add(n *Node) *Node {
	b.root.AddChild(n)
	b.log.Debug("object created",
		zap.Int("id", b.root.NumChildren()),
		zap.String("name", n.Name),
		zap.Stringer("kind", n.Kind),
		vec3Field("position", n.Position()))
	return n
}

// place applies the configured pose and size to the whole subtree.
func place(n *Node, c ObjectConfig) {
	n.SetPosition(c.Position)
	n.SetDirection(directionOr(c.Direction))
	n.SetSize(sizeOr(c.Size))
}

// attachModel loads a model and adds one child per mesh under n.
func (b *sceneBuilder) attachModel(n *Node, path string) {
	if b.assets == nil || path == "" {
		return
	}
	meshes, err := b.assets.LoadModel(path)
	if err != nil {
		b.log.Warn("model load failed", zap.String("object", n.Name), zap.String("path", path), zap.Error(err))
	}
	for _, m := range meshes {
		n.AddChild(NewNode(n.Name+"/"+m.Name, m))
	}
}

// texture loads path into the mesh material, logging failures.
func (b *sceneBuilder) texture(owner string, m *Mesh, path string) {
	if b.assets == nil || path == "" || m == nil {
		return
	}
	img, err := b.assets.LoadTexture(path)
	if err != nil {
		b.log.Warn("texture load failed", zap.String("object", owner), zap.String("path", path), zap.Error(err))
		return
	}
	m.Material.TexturePath = path
	m.Material.Texture = img
}

// model creates a group node holding the meshes of c.Model.
func (b *sceneBuilder) model(name string, c ObjectConfig) *Node {
	n := NewNode(name, nil)
	b.attachModel(n, c.Model)
	place(n, c)
	return b.add(n)
}

// sprite textures a single-mesh node and places it.
func (b *sceneBuilder) sprite(n *Node, c ObjectConfig) *Node {
	b.texture(n.Name, n.Mesh, c.Texture)
	place(n, c)
	return b.add(n)
}

func (b *sceneBuilder) skybox() {
	c := b.cfg.Skybox
	n := NewSkybox("skybox", NewCubeMesh("skybox"), c.Slow)
	if b.assets != nil && (len(c.Day) > 0 || len(c.Night) > 0) {
		n.Sky = &SkyFaces{}
		b.faces(&n.Sky.Day, c.Day)
		b.faces(&n.Sky.Night, c.Night)
	}
	n.SetPosition(c.Position)
	n.SetSize(sizeOr(c.Size))
	b.add(n)
}

func (b *sceneBuilder) faces(dst *[6]*ebiten.Image, paths []string) {
	for i, p := range paths {
		if i >= len(dst) {
			b.log.Warn("extra skybox face ignored", zap.String("path", p))
			continue
		}
		img, err := b.assets.LoadTexture(p)
		if err != nil {
			b.log.Warn("skybox face load failed", zap.Int("face", i), zap.String("path", p), zap.Error(err))
			continue
		}
		dst[i] = img
	}
}

// glowingPlane is an unlit sprite quad.
func glowingPlane(name string) *Mesh {
	m := NewPlaneMesh(name)
	m.Emissive = true
	return m
}

// fishBannerRepeat is how often the fish texture tiles along the banner.
const fishBannerRepeat = 40

func (b *sceneBuilder) fishBanner() {
	c := b.cfg.FishBanner
	b.sprite(NewNode("fish_banner", NewSidePlaneMesh("fish_banner", fishBannerRepeat)), c)
}

func (b *sceneBuilder) fish(id ObjectID, c ObjectConfig) {
	mesh := NewSidePlaneMesh(id.String(), 1)
	b.texture(id.String(), mesh, c.Texture)
	n := NewSplineNode(id.String(), mesh, NewSpline(c.Path), c.Slow)
	n.SetSize(sizeOr(c.Size))
	b.add(n)
}

func (b *sceneBuilder) ship() {
	c := b.cfg.Ship
	n := NewSplineNode("ship", nil, NewSpline(c.Path), c.Slow)
	b.attachModel(n, c.Model)
	// Children joined after the spline placed the node; share its pose.
	n.SetPose(n.Pose())
	n.SetSize(sizeOr(c.Size))
	b.add(n)
}

func (b *sceneBuilder) water() {
	c := b.cfg.Water
	n := NewWater("water", NewGridMesh("water", c.Side, c.Gap))
	n.SetPosition(c.Position)
	n.SetSize(sizeOr(c.Size))
	b.add(n)
}

func (b *sceneBuilder) sun() {
	c := b.cfg.Sun
	m := NewSphereMesh("sun", 16, 24)
	m.Emissive = true
	m.Material.Diffuse = mgl64.Vec3{1, 0.9, 0.5}
	b.texture("sun", m, c.Texture)
	n := NewNode("sun", m)
	place(n, c)
	b.add(n)
}
