package templates

import "math"

// Prototype is the floating-point model of one feature: an oriented line
// segment plus the implicit line equation A*x + B*y + C = 0 used by the
// matching primitive's distance computation.
type Prototype struct {
	X      float32
	Y      float32
	Angle  float32
	Length float32

	A float32
	B float32
	C float32
}

// FillABC derives the line parameters from position and angle. Angle is in
// rotations (0..1), matching the feature extractor's convention.
func (p *Prototype) FillABC() {
	theta := float64(p.Angle) * 2 * math.Pi
	p.A = float32(-math.Sin(theta))
	p.B = float32(math.Cos(theta))
	p.C = -(p.A*p.X + p.B*p.Y)
}

// Quantize converts the prototype to the integer encoding consumed by the
// matching primitive. The line parameters are mapped from [-1,1] onto the
// byte range; the angle keeps its 0..1 rotation scale.
func (p *Prototype) Quantize() IntProto {
	return IntProto{
		A:     quantizeSigned(p.A),
		B:     quantizeSigned(p.B),
		C:     quantizeSigned(p.C),
		Angle: uint8(clampInt(int(p.Angle*256), 0, 255)),
	}
}

func quantizeSigned(v float32) uint8 {
	return uint8(clampInt(int((v+1)*127.5), 0, 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TempProto is a prototype awaiting promotion, tagged with the proto id it
// occupies in the class's integer template.
type TempProto struct {
	ProtoID int
	Proto   Prototype
}
