package epicycle

import "math"

// Shape is a closed silhouette sampled over i ∈ [0, n).
type Shape struct {
	Name   string
	Sample func(i, n int) complex128
}

func lerp(i, n int, span float64) float64 { return float64(i) / float64(n) * span }

var Shapes = []Shape{
	{"heart", func(i, n int) complex128 {
		t := lerp(i, n, 2*math.Pi)
		x := 16 * math.Pow(math.Sin(t), 3)
		y := -(13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t))
		return complex(x*12, y*12)
	}},
	{"trefoil", func(i, n int) complex128 {
		t := lerp(i, n, 2*math.Pi)
		return complex((math.Sin(t)+2*math.Sin(2*t))*60, (math.Cos(t)-2*math.Cos(2*t))*60)
	}},
	{"lemniscate", func(i, n int) complex128 {
		t := lerp(i, n, 2*math.Pi)
		d := 1 + math.Pow(math.Sin(t), 2)
		return complex(200*math.Cos(t)/d, 200*math.Sin(t)*math.Cos(t)/d)
	}},
	{"butterfly", func(i, n int) complex128 {
		t := lerp(i, n, 24*math.Pi)
		r := math.Exp(math.Cos(t)) - 2*math.Cos(4*t) - math.Pow(math.Sin(t/12), 5)
		return complex(math.Sin(t)*r*50, -math.Cos(t)*r*50)
	}},
	{"hypotrochoid", func(i, n int) complex128 {
		t := lerp(i, n, 6*math.Pi)
		const R, r, d = 5.0, 3.0, 5.0
		x := (R-r)*math.Cos(t) + d*math.Cos((R-r)/r*t)
		y := (R-r)*math.Sin(t) - d*math.Sin((R-r)/r*t)
		return complex(x*25, y*25)
	}},
	{"lissajous", func(i, n int) complex128 {
		t := lerp(i, n, 2*math.Pi)
		return complex(math.Sin(3*t+math.Pi/2)*200, math.Sin(2*t)*200)
	}},
	{"epicycloid", func(i, n int) complex128 {
		t := lerp(i, n, 4*math.Pi)
		const R, r = 5.0, 2.0
		x := (R+r)*math.Cos(t) - r*math.Cos((R+r)/r*t)
		y := (R+r)*math.Sin(t) - r*math.Sin((R+r)/r*t)
		return complex(x*25, y*25)
	}},
}

// ShapeNames lists the shapes in index order.
func ShapeNames() []string {
	names := make([]string, len(Shapes))
	for i, s := range Shapes {
		names[i] = s.Name
	}
	return names
}
