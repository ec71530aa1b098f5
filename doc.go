// Package island is an interactive 3D island scene for [Ebitengine].
//
// A [Session] owns everything a run needs: the scene graph, a first-person
// [Camera], the campfire and sun lights, the active [View] and the item the
// player is holding. A [Renderer] draws a session with ebiten's triangle API
// and answers which object sits under a pixel, and an [Input] turns keyboard
// and mouse state into session calls.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and drives
// the session for you:
//
//	cfg, _ := island.LoadConfig("island.toml")
//	r := island.NewRenderer(nil)
//	in := island.NewInput(&cfg.Keys)
//	s, _ := island.NewSession(cfg,
//		island.WithAssets(island.NewFileAssets(cfg.Scene.AssetDir)),
//		island.WithPicker(r),
//		island.WithCursor(in),
//	)
//	island.Run(s, island.RunConfig{Renderer: r, Input: in})
//
// For full control, wrap the session in a [Game] with [NewGame] and pass it
// to [ebiten.RunGame] yourself.
//
// # Scene graph
//
// Every object is a [Node]. The root's direct children are the scene's
// top-level objects; the Nth child has [ObjectID] N, which is how clicks,
// interactions and logs name objects. A node's subtree moves as one rigid
// group: setting position, size, direction or up on a node applies the same
// value to all of its descendants.
//
// Node kinds cover plain meshes, camera-facing billboards, the skybox, the
// animated water grid and spline-driven nodes that loop along a closed
// Catmull-Rom [Spline].
//
// # Interaction
//
// Left clicks are resolved to a top-level object and looked up in a fixed
// table keyed by the held item: an empty hand picks up the bucket or the
// torch, the bucket douses the fire, the torch lights it or fires the cannon,
// and clicking the island puts the held item back. Applied interactions can
// be mirrored into other systems through [WithEntityStore].
//
// # Configuration and logging
//
// [DefaultConfig] returns the built-in scene from an embedded TOML file;
// [LoadConfig] overlays a user file on top of it. Logging uses zap through
// [NewLogger], with optional size-rotated files.
//
// # Debug mode
//
// [Session.SetDebugMode] or the config's debug flag turns on tree depth and
// orientation checks and per-frame render timing at debug level.
//
// # Automated testing
//
// [LoadTestScript] reads a JSON script of key holds, actions, clicks, waits
// and screenshots. Attach it with [Game.SetTestRunner] or [RunConfig.Script]
// to replay a session frame by frame.
//
// [Ebitengine]: https://ebitengine.org
package island
