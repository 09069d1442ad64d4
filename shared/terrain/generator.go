package terrain

import (
	"math"

	"TerraVista/shared/util"
)

// Generator produz terreno procedural determinístico a partir de uma seed.
// Usa value noise fractal com o mesmo hash seno/fract dos shaders do visor,
// para que terreno gerado em Go e ruído gerado na GPU fiquem coerentes.
type Generator struct {
	Seed int64

	// Amplitude vertical máxima do terreno.
	Amplitude float32
	// Frequency base do ruído (colunas por ciclo).
	Frequency float32
	// Octaves do fractal.
	Octaves int
}

// NewGenerator cria um gerador com os parâmetros padrão.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:      seed,
		Amplitude: 24.0,
		Frequency: 1.0 / 64.0,
		Octaves:   4,
	}
}

// hash2 replica o hash dos shaders: fract(sin(dot(p, k)) * 43758.5453).
func (g *Generator) hash2(x, y float64) float64 {
	s := math.Sin(x*127.1+y*311.7+float64(g.Seed)*0.013) * 43758.5453123
	return s - math.Floor(s)
}

// valueNoise interpola o hash nos quatro cantos da célula (smoothstep).
func (g *Generator) valueNoise(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy

	// f * f * (3 - 2f)
	fx = fx * fx * (3 - 2*fx)
	fy = fy * fy * (3 - 2*fy)

	a := g.hash2(ix, iy)
	b := g.hash2(ix+1, iy)
	c := g.hash2(ix, iy+1)
	d := g.hash2(ix+1, iy+1)

	top := a + (b-a)*fx
	bottom := c + (d-c)*fx
	return top + (bottom-top)*fy
}

// HeightAt retorna a altura do terreno na coluna global (x, z).
func (g *Generator) HeightAt(x, z int32) float32 {
	freq := float64(g.Frequency)
	amp := 1.0
	total := 0.0
	norm := 0.0

	for o := 0; o < g.Octaves; o++ {
		total += g.valueNoise(float64(x)*freq, float64(z)*freq) * amp
		norm += amp
		freq *= 2
		amp *= 0.5
	}

	return float32(total/norm) * g.Amplitude
}

// MaterialAt classifica o material da coluna pela altura e pela inclinação
// local (diferença de altura com os vizinhos).
func (g *Generator) MaterialAt(x, z int32) Material {
	h := g.HeightAt(x, z)

	slope := float32(0)
	for _, d := range [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		dh := g.HeightAt(x+d[0], z+d[1]) - h
		if dh < 0 {
			dh = -dh
		}
		if dh > slope {
			slope = dh
		}
	}

	switch {
	case h > g.Amplitude*0.85:
		return MaterialSnow
	case slope > 1.5:
		return MaterialRock
	case h < g.Amplitude*0.15:
		return MaterialSand
	case slope > 0.6:
		return MaterialDirt
	default:
		return MaterialGrass
	}
}

// GenerateChunk materializa o chunk com origem dada.
func (g *Generator) GenerateChunk(origin util.ChunkCoord) *Chunk {
	c := &Chunk{Origin: origin, MTime: 1, IsDirty: true}
	for x := int32(0); x < util.ChunkSize; x++ {
		for z := int32(0); z < util.ChunkSize; z++ {
			gx := origin.X + x
			gz := origin.Z + z
			c.Heights[x][z] = g.HeightAt(gx, gz)
			c.Materials[x][z] = g.MaterialAt(gx, gz)
		}
	}
	return c
}
