package models

import "math"

// Fitted open-circuit potentials as functions of electrode stoichiometry.
// Standard literature fits for a graphite negative electrode and a layered
// oxide positive electrode, valid on (0, 1).

func ocvNegative(x float64) float64 {
	return 0.194 +
		1.5*math.Exp(-120.0*x) +
		0.0351*math.Tanh((x-0.286)/0.083) -
		0.0045*math.Tanh((x-0.849)/0.119) -
		0.035*math.Tanh((x-0.9233)/0.05) -
		0.0147*math.Tanh((x-0.5)/0.034) -
		0.102*math.Tanh((x-0.194)/0.142) -
		0.022*math.Tanh((x-0.9)/0.0164) -
		0.011*math.Tanh((x-0.124)/0.0226) +
		0.0155*math.Tanh((x-0.105)/0.029)
}

func ocvPositive(y float64) float64 {
	return 2.16216 +
		0.07645*math.Tanh(30.834-54.4806*y) +
		2.1581*math.Tanh(52.294-50.294*y) -
		0.14169*math.Tanh(11.0923-19.8543*y) +
		0.2051*math.Tanh(1.4684-5.4888*y) +
		0.2531*math.Tanh((-y+0.56478)/0.1316) -
		0.02167*math.Tanh((y-0.525)/0.006)
}
