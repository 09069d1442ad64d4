package render

import (
	"fmt"
	"strings"
)

// ShaderVariant seleciona quais blocos condicionais do shader entram na
// compilação. A escolha acontece uma vez, ao criar o renderer; não existe
// branch por frame.
type ShaderVariant uint8

const (
	// VariantBasic compila só o caminho posição/UV/cor.
	VariantBasic ShaderVariant = 0
	// VariantNormalMap habilita USE_NORMAL_MAP: normal transformada pela
	// normalMatrix e base tangente derivada do eixo (1,0,0).
	VariantNormalMap ShaderVariant = 1 << iota
)

// Has informa se a variante inclui o flag dado.
func (v ShaderVariant) Has(flag ShaderVariant) bool {
	return v&flag != 0
}

func (v ShaderVariant) String() string {
	if v.Has(VariantNormalMap) {
		return "normal_map"
	}
	return "basic"
}

// defines lista as diretivas #define da variante, na ordem de injeção.
func (v ShaderVariant) defines() []string {
	var out []string
	if v.Has(VariantNormalMap) {
		out = append(out, "USE_NORMAL_MAP")
	}
	return out
}

// Specialize injeta os #define da variante logo após a linha #version.
// O GLSL exige que #version seja a primeira diretiva, então os defines
// entram na linha seguinte.
func (v ShaderVariant) Specialize(source string) (string, error) {
	defines := v.defines()
	if len(defines) == 0 {
		return source, nil
	}

	idx := strings.Index(source, "#version")
	if idx < 0 {
		return "", fmt.Errorf("shader sem diretiva #version")
	}
	eol := strings.IndexByte(source[idx:], '\n')
	if eol < 0 {
		return "", fmt.Errorf("diretiva #version sem quebra de linha")
	}
	cut := idx + eol + 1

	var b strings.Builder
	b.WriteString(source[:cut])
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString(source[cut:])
	return b.String(), nil
}
