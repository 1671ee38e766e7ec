package linear

// Summary is the Excel-style regression report: a regression-statistics
// block, an ANOVA table and a coefficient table. Statistics that need
// more residual degrees of freedom than the sample provides are
// undefined rather than zero.
type Summary struct {
	RegressionStatistics RegressionStatistics
	ANOVA                ANOVA
	Coefficients         []CoefficientRow
}

// RegressionStatistics mirrors the "Regression Statistics" block.
type RegressionStatistics struct {
	MultipleR        float64
	RSquared         float64
	AdjustedRSquared Stat
	StandardError    Stat
	Observations     int
}

// ANOVA holds the Regression/Residual/Total decomposition rows.
type ANOVA struct {
	Regression ANOVARow
	Residual   ANOVARow
	Total      ANOVARow
}

// ANOVARow is one row of the ANOVA table. MS is undefined when the
// row's degrees of freedom are not positive; F and FSignificance are
// only defined on the Regression row.
type ANOVARow struct {
	DF            int
	SS            float64
	MS            Stat
	F             Stat
	FSignificance Stat
}

// CoefficientRow is one row of the coefficient table: the intercept or
// one predictor term with its inferential statistics.
type CoefficientRow struct {
	Name          string
	Coefficient   float64
	StandardError Stat
	TStat         Stat
	PValue        Stat
	Lower95       Stat
	Upper95       Stat
}

// Interpretation is the natural-language reading of a fitted model.
type Interpretation struct {
	Equation     string
	Coefficients []CoefficientInterpretation
	ModelQuality ModelQuality
	Conclusion   string
}

// CoefficientInterpretation pairs a term name with its narrative.
type CoefficientInterpretation struct {
	Name string
	Text string
}

// ModelQuality holds the goodness-of-fit narrative. AdjustedRSquared is
// empty for simple regression, which reports only R² and the F-test.
type ModelQuality struct {
	RSquared         string
	AdjustedRSquared string
	FStatistic       string
}
