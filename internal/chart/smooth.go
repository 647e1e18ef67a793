package chart

// smoothSteps is the number of sampled segments per source interval
const smoothSteps = 8

// smooth samples a cubic Bézier curve through the points. Control points follow
// the neighbouring points scaled by tension, the way a tensioned line chart
// bends; a tension of 0 or fewer than three points returns the input unchanged.
// Sampled values are clamped at zero since counts never go negative.
func smooth(xs, ys []float64, tension float64) ([]float64, []float64) {
	n := len(xs)
	if tension <= 0 || n < 3 {
		return xs, ys
	}

	at := func(i int) (float64, float64) {
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		return xs[i], ys[i]
	}

	outX := make([]float64, 0, (n-1)*smoothSteps+1)
	outY := make([]float64, 0, (n-1)*smoothSteps+1)
	outX = append(outX, xs[0])
	outY = append(outY, ys[0])

	k := tension / 2
	for i := 0; i < n-1; i++ {
		x0, y0 := at(i)
		x1, y1 := at(i + 1)
		xp, yp := at(i - 1)
		xn, yn := at(i + 2)

		c1x, c1y := x0+k*(x1-xp), y0+k*(y1-yp)
		c2x, c2y := x1-k*(xn-x0), y1-k*(yn-y0)

		for step := 1; step <= smoothSteps; step++ {
			t := float64(step) / smoothSteps
			u := 1 - t
			b0, b1, b2, b3 := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
			x := b0*x0 + b1*c1x + b2*c2x + b3*x1
			y := b0*y0 + b1*c1y + b2*c2y + b3*y1
			if y < 0 {
				y = 0
			}
			outX = append(outX, x)
			outY = append(outY, y)
		}
	}
	return outX, outY
}
