package systems

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/utils"
)

// maxShaderLights 着色器中灯光数组的长度
const maxShaderLights = 8

// inkShaderSource 油墨贴花的法线贴图 Phong 着色器
//
// imageSrc0 为遮罩（取 alpha），imageSrc1 为同尺寸法线贴图。
// 颜色在线性空间计算，输出前转换为 sRGB 并预乘 alpha。
const inkShaderSource = `//kage:unit pixels

package main

var Rotation mat3
var FaceSign float
var NormalScale float
var Base vec3
var Specular vec3
var Emissive vec3
var EmissiveIntensity float
var Shininess float
var LightDir [8]vec3
var LightIntensity [8]float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	mask := imageSrc0At(srcPos).a
	if mask == 0 {
		discard()
	}

	nm := imageSrc1At(srcPos).rgb*2 - 1
	local := normalize(vec3(nm.xy*NormalScale, nm.z)) * FaceSign
	n := normalize(Rotation * local)

	diffuse := 0.0
	spec := 0.0
	for i := 0; i < 8; i++ {
		l := LightDir[i]
		d := dot(n, l)
		if d > 0 {
			diffuse += d * LightIntensity[i]
			h := normalize(l + vec3(0, 0, 1))
			s := max(dot(n, h), 0)
			spec += pow(s, Shininess) * LightIntensity[i]
		}
	}

	lin := Base*diffuse + Specular*spec + Emissive*EmissiveIntensity
	srgb := pow(clamp(lin, 0, 1), vec3(1.0/2.2))
	a := mask * color.a
	return vec4(srgb*a, a)
}
`

// InkShader 编译后的油墨着色器，编译失败时渲染回退到平面光照
type InkShader struct {
	shader *ebiten.Shader
}

// NewInkShader 编译油墨着色器
func NewInkShader() (*InkShader, error) {
	s, err := ebiten.NewShader([]byte(inkShaderSource))
	if err != nil {
		return nil, err
	}
	return &InkShader{shader: s}, nil
}

// mustInkShader 编译失败时记录日志并返回 nil
func mustInkShader() *InkShader {
	s, err := NewInkShader()
	if err != nil {
		log.Printf("[CardRenderSystem] 油墨着色器编译失败，使用平面光照: %v", err)
		return nil
	}
	return s
}

// inkUniforms 组装一次贴花绘制的 uniform
func inkUniforms(rotation utils.Mat3, faceSign, normalScale float64, m PhongMaterial, rig *config.LightRig) map[string]any {
	// mat3 uniform 按列主序传入
	rot := make([]float32, 0, 9)
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			rot = append(rot, float32(rotation.At(r, c)))
		}
	}

	dirs := make([]float32, 0, maxShaderLights*3)
	intensities := make([]float32, 0, maxShaderLights)
	count := 0
	// 未使用的灯光强度为 0
	for _, l := range rig.Lights {
		if count == maxShaderLights {
			break
		}
		d := l.Direction()
		dirs = append(dirs, float32(d.X), float32(d.Y), float32(d.Z))
		intensities = append(intensities, float32(l.Intensity))
		count++
	}
	for i := count; i < maxShaderLights; i++ {
		dirs = append(dirs, 0, 0, 0)
		intensities = append(intensities, 0)
	}

	return map[string]any{
		"Rotation":          rot,
		"FaceSign":          float32(faceSign),
		"NormalScale":       float32(normalScale),
		"Base":              []float32{float32(m.Base.R), float32(m.Base.G), float32(m.Base.B)},
		"Specular":          []float32{float32(m.Specular.R), float32(m.Specular.G), float32(m.Specular.B)},
		"Emissive":          []float32{float32(m.Emissive.R), float32(m.Emissive.G), float32(m.Emissive.B)},
		"EmissiveIntensity": float32(m.EmissiveIntensity),
		"Shininess":         float32(m.Shininess),
		"LightDir":          dirs,
		"LightIntensity":    intensities,
	}
}
