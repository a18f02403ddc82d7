package chestim

import "math"

// besselJ0 evaluates the zeroth-order Bessel function of the first kind
// via a rational polynomial approximation for |x| < 8 and an asymptotic
// expansion above (Numerical Recipes' bessj0), used by the Doppler
// autocorrelation model
// (classical Clarke/Jakes spectrum R(tau) = J0(2*pi*fD*tau)). Grounded
// on original_source/lib/src/sections_part3/.. 's bessel.cpp, which
// implements the same family of special functions for channel-model LUT
// generation (J0 there, I0 reused by internal/resample's Kaiser design).
func besselJ0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 8 {
		y := x * x
		p1 := 57568490574.0 + y*(-13362590354.0+y*(651619640.7+y*(-11214424.18+y*(77392.33017+y*(-184.9052456)))))
		p2 := 57568490411.0 + y*(1029532985.0+y*(9494680.718+y*(59272.64853+y*(267.8532712+y*1.0))))
		return p1 / p2
	}
	z := 8 / ax
	y := z * z
	xx := ax - 0.785398164
	p1 := 1.0 + y*(-0.1098628627e-2+y*(0.2734510407e-4+y*(-0.2073370639e-5+y*0.2093887211e-6)))
	p2 := -0.1562499995e-1 + y*(0.1430488765e-3+y*(-0.6911147651e-5+y*(0.7621095161e-6+y*-0.934935152e-7)))
	return math.Sqrt(0.636619772/ax) * (math.Cos(xx)*p1 - z*math.Sin(xx)*p2)
}
