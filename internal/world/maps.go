package world

import (
	"github.com/vovakirdan/tui-adventure/internal/registry"
	"github.com/vovakirdan/tui-adventure/internal/tilemap"
)

// RegisterMaps registers a game for each map whose id is not taken yet.
// Returns the number of maps added.
func RegisterMaps(maps []*tilemap.Map) int {
	added := 0
	for _, m := range maps {
		if registry.Exists(m.ID) {
			continue
		}
		registry.Register(m.ID, func() registry.Game {
			return New(m)
		})
		added++
	}
	return added
}

// Register the built-in maps with the registry
func init() {
	maps, err := tilemap.Builtin()
	if err != nil {
		panic("world: loading built-in maps: " + err.Error())
	}
	RegisterMaps(maps)
}
