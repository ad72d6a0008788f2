// Package potion is a small 2D game engine core for [Ebitengine] built
// around pixel-art games.
//
// # Quick start
//
// A game is a config, a logger and a first scene:
//
//	func main() {
//		cfg, err := potion.LoadConfig("config.toml")
//		if err != nil {
//			log.Fatal(err)
//		}
//		logger, err := potion.NewLogger(cfg.Logging)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer potion.HandleCrash(cfg, logger)
//
//		engine := potion.NewEngine(cfg, logger)
//		if err := engine.Run(NewTitle); err != nil {
//			logger.Fatal("run", zap.Error(err))
//		}
//	}
//
// # Scenes
//
// A scene is any struct embedding *[Scene]. It opts into lifecycle hooks by
// implementing [CameraSetup], [EntityLoader], [SceneStarter] and
// [SceneEnder]. [Engine.LoadScene] switches scenes at the end of the frame.
//
// Every scene starts with two cameras. "Main" draws everything not tagged
// "UI"; "UI" draws only "UI" entities on top of it.
//
// # Entities
//
// An entity is any struct embedding [BaseEntity]. Like scenes, entities
// implement only the hooks they need:
//
//	type Coin struct{ potion.BaseEntity }
//
//	func (c *Coin) Update(ctx *potion.Context)           { ... }
//	func (c *Coin) Draw(ctx *potion.Context, cam *potion.Camera) { ... }
//	func (c *Coin) OnCollisionBegin(other potion.Entity) { c.Destroy() }
//
// Changes to an [EntityList] (adding, removing, activating) are queued and
// applied once per frame by [EntityList.UpdateList], so hooks can freely
// add or destroy entities while the list is being iterated.
//
// Positions are integers. [BaseEntity.MoveX] and [BaseEntity.MoveY] keep
// fractional movement in a remainder and step one pixel at a time, stopping
// at solid entities.
//
// # Cameras
//
// A [Camera] renders entities into its own low-resolution texture through
// one or more [RenderPass] layers, scales the result to the window's
// viewport and copies it with a sub-pixel offset so scrolling stays smooth
// at integer scales. Cameras are drawn in descending draw order.
//
// [Ebitengine]: https://ebitengine.org
package potion
