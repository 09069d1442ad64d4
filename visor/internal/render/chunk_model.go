package render

import (
	"TerraVista/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ChunkModel é a malha de um chunk residente na GPU, junto com as
// instâncias de props espalhadas sobre ele.
type ChunkModel struct {
	Origin    util.ChunkCoord
	Model     rl.Model
	MTime     int64
	Active    bool
	Instances []PropInstance
}
