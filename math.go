package ripple

import "golang.org/x/exp/constraints"

func clamp[N constraints.Integer | constraints.Float](n, minN, maxN N) N {
	n = min(n, maxN)
	n = max(n, minN)
	return n
}

func lerp[F constraints.Float](a, b, t F) F {
	return a + (b-a)*t
}
