package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"YTM4A/internal/domain/models"
	domsvc "YTM4A/internal/domain/service"
	"YTM4A/internal/services/features"
	"YTM4A/pkg/util"
)

const (
	// ReturnsWindow is the trailing window of the past-returns regressor.
	ReturnsWindow = 5
	// Horizon is the number of trading days projected.
	Horizon = 5
	// Decay shrinks the base return by this fraction per projected day.
	Decay = 0.1
)

// OLSPredictor regresses the next-day return on sentiment and the trailing
// mean return, then projects Horizon days forward with a linear decay.
type OLSPredictor struct{}

func NewOLSPredictor() *OLSPredictor { return &OLSPredictor{} }

type fit struct {
	intercept float64
	coef      []float64
	r2        float64
}

func (f fit) predict(x ...float64) float64 {
	y := f.intercept
	for i, v := range x {
		y += f.coef[i] * v
	}
	return y
}

func (p *OLSPredictor) Predict(sentiment float64, candles []models.Candle) (*models.Prediction, error) {
	closes := features.Closes(candles)
	returns := features.PctChange(closes, 1)
	past := features.RollingMean(returns, ReturnsWindow)

	var rows [][]float64
	var ys []float64
	for i := 0; i+1 < len(returns); i++ {
		next := returns[i+1]
		if math.IsNaN(past[i]) || math.IsNaN(next) {
			continue
		}
		rows = append(rows, []float64{sentiment, past[i]})
		ys = append(ys, next)
	}
	if len(rows) < 2 {
		return nil, models.NewError(models.KindAnalysis, "Insufficient data for prediction")
	}

	m, err := leastSquares(rows, ys)
	if err != nil {
		return nil, fmt.Errorf("fit returns model: %w", err)
	}

	base := m.predict(sentiment, tailMean(returns, ReturnsWindow))
	current := closes[len(closes)-1]
	day := candles[len(candles)-1].Time

	out := &models.Prediction{
		Intercept:     m.intercept,
		SentimentCoef: m.coef[0],
		ReturnsCoef:   m.coef[1],
		RSquared:      m.r2,
		Days:          make([]models.PredictedPrice, 0, Horizon),
	}
	for i := 0; i < Horizon; i++ {
		ret := base * (1 - Decay*float64(i))
		price := current * (1 + ret)
		day = util.NextTradingDay(day)
		out.Days = append(out.Days, models.PredictedPrice{
			Day:             i + 1,
			Date:            day,
			PredictedReturn: ret,
			PredictedPrice:  price,
		})
		current = price
	}
	return out, nil
}

// leastSquares fits y = b0 + X*b on centred data with the minimum-norm SVD
// solution, so constant or collinear columns get a zero coefficient instead
// of failing.
func leastSquares(rows [][]float64, ys []float64) (fit, error) {
	n, k := len(rows), len(rows[0])

	means := make([]float64, k)
	col := make([]float64, n)
	for j := 0; j < k; j++ {
		for i := range rows {
			col[i] = rows[i][j]
		}
		means[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(ys, nil)

	x := mat.NewDense(n, k, nil)
	y := mat.NewDense(n, 1, nil)
	for i, r := range rows {
		for j, v := range r {
			x.Set(i, j, v-means[j])
		}
		y.Set(i, 0, ys[i]-yMean)
	}

	coef := make([]float64, k)
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return fit{}, fmt.Errorf("svd did not converge")
	}
	if rank := svd.Rank(1e-12); rank > 0 {
		var b mat.Dense
		svd.SolveTo(&b, y, rank)
		for j := range coef {
			coef[j] = b.At(j, 0)
		}
	}

	intercept := yMean
	for j := range coef {
		intercept -= coef[j] * means[j]
	}
	f := fit{intercept: intercept, coef: coef}

	est := make([]float64, n)
	for i, r := range rows {
		est[i] = f.predict(r...)
	}
	f.r2 = rSquared(est, ys)
	return f, nil
}

func rSquared(est, ys []float64) float64 {
	mean := stat.Mean(ys, nil)
	var ssTot, ssRes float64
	for i, v := range ys {
		ssTot += (v - mean) * (v - mean)
		ssRes += (v - est[i]) * (v - est[i])
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(est, ys, nil)
}

// tailMean averages the last n non-NaN values among the final n entries.
func tailMean(xs []float64, n int) float64 {
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	var sum float64
	var cnt int
	for _, v := range xs {
		if !math.IsNaN(v) {
			sum += v
			cnt++
		}
	}
	if cnt == 0 {
		return 0
	}
	return sum / float64(cnt)
}

var _ domsvc.Predictor = (*OLSPredictor)(nil)
