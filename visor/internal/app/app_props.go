package app

import (
	"math"

	"TerraVista/shared/terrain"
	"TerraVista/shared/util"
	"TerraVista/visor/internal/render"
)

// propHash gera um valor determinístico em [0,1) por coluna, no mesmo
// estilo do hash de ruído do terreno. Determinístico para que os props
// não "pulem" quando o chunk é re-mesheado.
func propHash(x, z int32, salt float64) float32 {
	s := math.Sin(float64(x)*12.9898+float64(z)*78.233+salt) * 43758.5453
	return float32(s - math.Floor(s))
}

// scatterProps distribui vegetação sobre as colunas de grama do chunk e
// ancora as instâncias no modelo residente correspondente.
func (a *App) scatterProps(origin util.ChunkCoord) {
	names := a.renderer.PropNames()
	if len(names) == 0 {
		return
	}

	chunk := a.store.GetChunk(origin)
	if chunk == nil {
		return
	}

	var instances []render.PropInstance
	for lx := int32(0); lx < util.ChunkSize; lx++ {
		for lz := int32(0); lz < util.ChunkSize; lz++ {
			if chunk.MaterialAt(lx, lz) != terrain.MaterialGrass {
				continue
			}

			wx := origin.X + lx
			wz := origin.Z + lz
			h := propHash(wx, wz, 0)
			if h < 0.93 {
				continue
			}

			pos := util.ColumnToWorldPos(wx, wz, chunk.HeightAt(lx, lz))
			name := names[int(propHash(wx, wz, 7.31)*float32(len(names)))%len(names)]
			instances = append(instances, render.PropInstance{
				ModelName: name,
				Position:  pos,
				Rotation:  propHash(wx, wz, 3.17) * 360.0,
				Scale:     0.7 + propHash(wx, wz, 5.53)*0.6,
			})
		}
	}

	a.renderer.SetPropInstances(origin, instances)
}
