package proportion

// Wald returns the normal approximation interval p̂ ± z·sqrt(p̂(1-p̂)/n).
//
// It assumes p̂ is normally distributed and covers poorly for small samples
// or proportions near 0 or 1; prefer WilsonScore there.
func Wald[N Count, F Real](sample Sample[N, F], z F) CenterMargin[F] {
	pHat := sample.PHat()
	size := sample.sizeReal()

	return NewCenterMargin(pHat, z*sqrt(pHat*(1-pHat)/size))
}
