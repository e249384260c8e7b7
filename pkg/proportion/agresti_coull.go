package proportion

// AgrestiCoull returns the Agresti-Coull interval: a Wald interval over the
// adjusted sample ñ = n + z² with p̃ taken from the Wilson score mean.
func AgrestiCoull[N Count, F Real](sample Sample[N, F], z F) CenterMargin[F] {
	pTilde := WilsonScore(sample, z).Mean()
	nTilde := sample.sizeReal() + z*z

	// ñ >= n >= 0 and p̃ is in [0, 1], so validation is skipped.
	adjusted := Sample[F, F]{size: nTilde, proportion: PHat[F](pTilde)}

	return Wald(adjusted, z)
}
