package meshing

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/g3n/engine/loader/obj"
)

// NamedGeometry é uma malha nomeada carregada de um arquivo OBJ.
type NamedGeometry struct {
	Name     string
	Geometry GeometryData
}

// LoadOBJ carrega todas as malhas de um arquivo Wavefront OBJ. Quando o
// arquivo não traz normais, elas são computadas a partir dos triângulos
// (acúmulo ponderado por área e normalização por vértice).
func LoadOBJ(r io.Reader) ([]NamedGeometry, error) {
	dec, err := obj.DecodeReader(r, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("falha ao decodificar OBJ: %w", err)
	}

	hasNormals := len(dec.Normals) > 0

	var out []NamedGeometry
	for _, object := range dec.Objects {
		geom := GeometryData{}

		// Deduplicação de vértices por tripla (posição, normal, uv).
		type vertexKey struct {
			pos, normal, uv int
		}
		seen := make(map[vertexKey]uint16)

		addVertex := func(posIdx, normalIdx, uvIdx int) uint16 {
			key := vertexKey{posIdx, normalIdx, uvIdx}
			if idx, ok := seen[key]; ok {
				return idx
			}

			idx := uint16(len(geom.Vertices) / 3)
			geom.Vertices = append(geom.Vertices,
				dec.Vertices[posIdx*3], dec.Vertices[posIdx*3+1], dec.Vertices[posIdx*3+2])

			if hasNormals && normalIdx >= 0 {
				geom.Normals = append(geom.Normals,
					dec.Normals[normalIdx*3], dec.Normals[normalIdx*3+1], dec.Normals[normalIdx*3+2])
			} else {
				geom.Normals = append(geom.Normals, 0, 0, 0)
			}

			if uvIdx >= 0 && len(dec.Uvs) > 0 {
				geom.UVs = append(geom.UVs, dec.Uvs[uvIdx*2], dec.Uvs[uvIdx*2+1])
			} else {
				geom.UVs = append(geom.UVs, 0, 0)
			}

			geom.Colors = append(geom.Colors, 255, 255, 255, 255)
			seen[key] = idx
			return idx
		}

		for _, face := range object.Faces {
			if len(face.Vertices) < 3 {
				continue
			}
			// Triangulação em leque para polígonos com mais de 3 lados.
			normalAt := func(i int) int {
				if i < len(face.Normals) {
					return face.Normals[i]
				}
				return -1
			}
			uvAt := func(i int) int {
				if i < len(face.Uvs) {
					return face.Uvs[i]
				}
				return -1
			}

			i0 := addVertex(face.Vertices[0], normalAt(0), uvAt(0))
			for i := 1; i+1 < len(face.Vertices); i++ {
				i1 := addVertex(face.Vertices[i], normalAt(i), uvAt(i))
				i2 := addVertex(face.Vertices[i+1], normalAt(i+1), uvAt(i+1))
				geom.Indices = append(geom.Indices, i0, i1, i2)
			}
		}

		if len(geom.Indices) == 0 {
			continue
		}

		if !hasNormals {
			computeNormals(&geom)
		}

		out = append(out, NamedGeometry{Name: object.Name, Geometry: geom})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("OBJ sem objetos")
	}
	return out, nil
}

// computeNormals recalcula as normais por vértice acumulando o produto
// vetorial de cada triângulo (ponderação por área) e normalizando no final.
func computeNormals(g *GeometryData) {
	for i := range g.Normals {
		g.Normals[i] = 0
	}

	for i := 0; i+2 < len(g.Indices); i += 3 {
		i0 := int(g.Indices[i]) * 3
		i1 := int(g.Indices[i+1]) * 3
		i2 := int(g.Indices[i+2]) * 3

		e1x := g.Vertices[i1] - g.Vertices[i0]
		e1y := g.Vertices[i1+1] - g.Vertices[i0+1]
		e1z := g.Vertices[i1+2] - g.Vertices[i0+2]

		e2x := g.Vertices[i2] - g.Vertices[i0]
		e2y := g.Vertices[i2+1] - g.Vertices[i0+1]
		e2z := g.Vertices[i2+2] - g.Vertices[i0+2]

		// cross(e1, e2): o comprimento carrega a área do triângulo.
		nx := e1y*e2z - e1z*e2y
		ny := e1z*e2x - e1x*e2z
		nz := e1x*e2y - e1y*e2x

		for _, idx := range []int{i0, i1, i2} {
			g.Normals[idx] += nx
			g.Normals[idx+1] += ny
			g.Normals[idx+2] += nz
		}
	}

	for i := 0; i+2 < len(g.Normals); i += 3 {
		l := float32(math.Sqrt(float64(g.Normals[i]*g.Normals[i] +
			g.Normals[i+1]*g.Normals[i+1] + g.Normals[i+2]*g.Normals[i+2])))
		if l > 0 {
			g.Normals[i] /= l
			g.Normals[i+1] /= l
			g.Normals[i+2] /= l
		}
	}
}
