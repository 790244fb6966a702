package raytrace

import "github.com/go-gl/mathgl/mgl32"

// lightDir is the fixed light direction for Lambert-plus-ambient
// shading.
var lightDir = mgl32.Vec3{0.5, 0.5, 0}.Normalize()

const ambient = 0.15

// TextureSample samples a material's texture at (u, v). Shade flips v
// before sampling.
type TextureSample func(u, v float32) mgl32.Vec4

// Pixel is one shaded output sample: RGBA (A=255 on hit) plus a
// 32-bit float depth.
type Pixel struct {
	R, G, B, A uint8
	Depth      float32
}

// Shade produces one output pixel: on hit, optionally
// sample the material's base color, multiply by a flipped-V texture
// sample, apply Lambert-plus-ambient lighting with the fixed light
// direction, and write RGBA (A=255) plus depth. On miss, zero depth
// (and black if rgbdMode is set).
func Shade(hit HitInfo, baseColor mgl32.Vec4, sample TextureSample, rgbdMode bool) Pixel {
	if !hit.Hit {
		if rgbdMode {
			return Pixel{Depth: 0}
		}
		return Pixel{Depth: 0}
	}

	color := baseColor
	if sample != nil {
		texel := sample(hit.UV.X(), 1-hit.UV.Y())
		color = mgl32.Vec4{color.X() * texel.X(), color.Y() * texel.Y(), color.Z() * texel.Z(), color.W() * texel.W()}
	}

	lambert := hit.Normal.Dot(lightDir)
	if lambert < 0 {
		lambert = 0
	}
	intensity := ambient + (1-ambient)*lambert

	return Pixel{
		R:     toByte(color.X() * intensity),
		G:     toByte(color.Y() * intensity),
		B:     toByte(color.Z() * intensity),
		A:     255,
		Depth: hit.THit,
	}
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
