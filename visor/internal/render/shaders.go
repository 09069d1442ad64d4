package render

// Shader de terreno. O vértice é transformado em dois estágios: modelMatrix
// leva para o espaço de mundo e viewProjection leva para clip space. As UVs
// não vêm de atributo: são o plano XZ da posição de mundo, então a textura
// acompanha o terreno sem costura entre chunks.
//
// O bloco USE_NORMAL_MAP só existe quando a variante com normal map é
// compilada (ver variants.go). A tangente chega como atributo, assada pelo
// mesher via cross((1,0,0), normal); se a normal apontar para +X ou -X a
// tangente degenera para zero e o fragment shader ignora o TBN. Terreno de
// heightmap nunca produz essa normal.
const terrainVertexShader = `
#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
in vec4 vertexColor;

uniform mat4 modelMatrix;
uniform mat4 viewProjection;

out vec2 fragTexCoord;
out vec4 fragColor;
out vec3 fragNormal;
out vec3 fragWorldPos;
out float fragHeight;

#ifdef USE_NORMAL_MAP
in vec4 vertexTangent;

uniform mat4 normalMatrix;

out vec3 fragTangent;
out vec3 fragBitangent;
#endif

void main() {
    vec4 worldPos = modelMatrix * vec4(vertexPosition, 1.0);

    fragWorldPos = worldPos.xyz;
    fragTexCoord = worldPos.xz;
    fragColor = vertexColor;
    fragHeight = worldPos.y;

#ifdef USE_NORMAL_MAP
    fragNormal = normalize(mat3(normalMatrix) * vertexNormal);
    fragTangent = mat3(modelMatrix) * vertexTangent.xyz;
    fragBitangent = cross(fragNormal, fragTangent) * vertexTangent.w;
#else
    fragNormal = vertexNormal;
#endif

    gl_Position = viewProjection * worldPos;
}
`

const terrainFragmentShader = `
#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
in vec3 fragNormal;
in vec3 fragWorldPos;
in float fragHeight;

#ifdef USE_NORMAL_MAP
in vec3 fragTangent;
in vec3 fragBitangent;
uniform sampler2D normalMap;
#endif

uniform vec4 colDiffuse;
uniform vec3 camPos;
uniform float time;

out vec4 finalColor;

// Ruído barato para quebrar a repetição do terreno
float hash(vec2 p) {
    return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453123);
}

void main() {
    vec3 normal = normalize(fragNormal);

#ifdef USE_NORMAL_MAP
    // TBN: perturba a normal pela textura, no espaço da superfície
    vec3 t = fragTangent;
    vec3 b = fragBitangent;
    if (dot(t, t) > 0.0001) {
        mat3 tbn = mat3(normalize(t), normalize(b), normal);
        vec3 sampled = texture(normalMap, fragTexCoord * 0.25).rgb * 2.0 - 1.0;
        normal = normalize(tbn * sampled);
    }
#endif

    // Variação de cor baseada no ruído do plano XZ
    float n = hash(floor(fragTexCoord * 2.0));
    vec4 mixedColor = fragColor * colDiffuse;
    mixedColor.rgb *= (0.9 + 0.2 * n);

    // Iluminação básica: ambiente + difusa direcional
    vec3 lightDir = normalize(vec3(0.5, 0.8, 0.3));
    float diff = max(dot(normal, lightDir), 0.0);
    mixedColor.rgb *= (0.4 + 0.6 * diff);

    // Fog exponencial pela distância à câmera
    float dist = length(camPos - fragWorldPos);
    vec3 fogColor = vec3(0.12, 0.12, 0.16);
    float fogFactor = exp(-pow(dist * 0.004, 2.0));
    fogFactor = clamp(fogFactor, 0.0, 1.0);

    finalColor = vec4(mix(fogColor, mixedColor.rgb, fogFactor), 1.0);
}
`

const propVertexShader = `
#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
in vec4 vertexColor;
in mat4 instanceTransform;

uniform mat4 viewProjection;
uniform float time;

out vec2 fragTexCoord;
out vec4 fragColor;
out vec3 fragNormal;
out float fragHeight;

void main() {
    fragTexCoord = vertexTexCoord;
    fragColor = vertexColor;
    fragNormal = normalize(mat3(instanceTransform) * vertexNormal);
    fragHeight = vertexPosition.y;

    vec4 worldPos = instanceTransform * vec4(vertexPosition, 1.0);

    // Vento: balanço horizontal proporcional à altura local do vértice
    float move = sin(time * 2.0 + worldPos.x * 0.5 + worldPos.z * 0.5) * 0.15 * vertexPosition.y;
    worldPos.x += move;
    worldPos.z += move * 0.3;

    gl_Position = viewProjection * worldPos;
}
`

const propFragmentShader = `
#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
in vec3 fragNormal;
in float fragHeight;

uniform vec4 colDiffuse;

out vec4 finalColor;

void main() {
    vec3 lightDir = normalize(vec3(0.5, 1.0, 0.3));
    float diff = max(dot(fragNormal, lightDir), 0.0);
    vec3 light = vec3(0.4) + vec3(0.6) * diff;

    vec4 color = fragColor * colDiffuse;
    color.rgb *= light;
    color.rgb *= (0.8 + 0.2 * smoothstep(0.0, 1.0, fragHeight));

    finalColor = color;
}
`
