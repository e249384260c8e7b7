package proportion

// WilsonScore returns the Wilson score interval. It inverts the normal
// approximation to the score statistic rather than to p̂, which keeps the
// interval inside [0, 1] and improves coverage for small samples.
func WilsonScore[N Count, F Real](sample Sample[N, F], z F) CenterMargin[F] {
	size := sample.sizeReal()
	pHat := sample.PHat()
	a, b := wilsonTerms(size, z)

	return NewCenterMargin(
		b*(pHat+a/2),
		z*b*sqrt(pHat*(1-pHat)/size+a/size/4),
	)
}

// WilsonScoreWithCC returns the Wilson score interval with continuity
// correction (Wallis, 2021). p̂ is shifted by 1/(2n) towards each side and
// clamped to [0, 1] before the score bound is taken, so the two bounds are
// not symmetric around a common mean.
func WilsonScoreWithCC[N Count, F Real](sample Sample[N, F], z F) LowerUpper[F] {
	size := sample.sizeReal()
	pHat := sample.PHat()
	correction := 1 / (size + size)
	lowerPHat := max(pHat-correction, 0)
	upperPHat := min(pHat+correction, 1)

	a, b := wilsonTerms(size, z)
	halfA := a / 2
	quarterSizedA := a / size / 4

	return NewLowerUpper(
		b*(lowerPHat+halfA)-z*b*sqrt(lowerPHat*(1-lowerPHat)/size+quarterSizedA),
		b*(upperPHat+halfA)+z*b*sqrt(upperPHat*(1-upperPHat)/size+quarterSizedA),
	)
}

// wilsonTerms returns a = z²/n and b = 1/(1+a).
func wilsonTerms[F Real](size, z F) (a, b F) {
	a = z * z / size
	b = 1 / (1 + a)

	return a, b
}
