package scenes

import (
	"github.com/gonewx/legends/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// AssetProvider 加载场景轮询的资源来源
type AssetProvider interface {
	State() game.LoadState
	Result() (*game.DecodedAssets, error)
}
