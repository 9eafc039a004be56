package forecast

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// ensembleSize cantidad de regresores del bagging.
	ensembleSize = 100

	// ridgeLambda regularización L2 de cada miembro (no penaliza el intercepto).
	ridgeLambda = 1.0

	// trainSeed semilla fija: mismo corpus produce el mismo modelo.
	trainSeed = 42

	// holdoutRatio fracción reservada para evaluar el MAE.
	holdoutRatio = 0.2
)

var errNoMembers = errors.New("ensamble sin miembros entrenados")

// scalerParams estandarización por feature (media y desviación del corpus).
type scalerParams struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func fitScaler(X [][]float64) scalerParams {
	p := len(X[0])
	s := scalerParams{Mean: make([]float64, p), Std: make([]float64, p)}
	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = popStdDev(col, s.Mean[j])
		// Una feature constante se deja sin escalar para no dividir por cero
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return s
}

func (s scalerParams) transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j := range x {
		out[j] = (x[j] - s.Mean[j]) / s.Std[j]
	}
	return out
}

func (s scalerParams) transformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = s.transform(X[i])
	}
	return out
}

// member un regresor ridge del ensamble: y = w·x + b.
type member struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (m member) predict(x []float64) float64 {
	y := m.Intercept
	for j, w := range m.Weights {
		y += w * x[j]
	}
	return y
}

// ensembleModel bagging de regresores ridge sobre remuestreos bootstrap.
// La dispersión entre miembros alimenta la confianza de cada predicción.
type ensembleModel struct {
	members []member
}

func newEnsembleModel(members []member) *ensembleModel {
	return &ensembleModel{members: members}
}

// Predict devuelve la media y la desviación poblacional de las predicciones
// de todos los miembros sobre un vector ya escalado.
func (e *ensembleModel) Predict(x []float64) (mean, std float64) {
	if len(e.members) == 0 {
		return 0, 0
	}
	preds := make([]float64, len(e.members))
	for i, m := range e.members {
		preds[i] = m.predict(x)
	}
	mean = stat.Mean(preds, nil)
	std = popStdDev(preds, mean)
	return mean, std
}

// trainEnsemble entrena ensembleSize regresores ridge, cada uno sobre un
// remuestreo bootstrap del corpus escalado.
func trainEnsemble(X [][]float64, y []float64, rng *rand.Rand) (*ensembleModel, error) {
	members := make([]member, 0, ensembleSize)
	Xb := make([][]float64, len(X))
	yb := make([]float64, len(y))
	for i := 0; i < ensembleSize; i++ {
		for k := range Xb {
			j := rng.Intn(len(X))
			Xb[k] = X[j]
			yb[k] = y[j]
		}
		m, err := fitRidge(Xb, yb, ridgeLambda)
		if err != nil {
			continue
		}
		members = append(members, m)
	}
	if len(members) == 0 {
		return nil, errNoMembers
	}
	return newEnsembleModel(members), nil
}

// fitRidge resuelve mínimos cuadrados con regularización L2 por aumento de
// filas: se agregan p filas sqrt(lambda)·e_j con target 0, dejando el
// intercepto (última columna, de unos) sin penalizar.
func fitRidge(X [][]float64, y []float64, lambda float64) (member, error) {
	n := len(X)
	p := len(X[0])
	rows := n + p

	a := mat.NewDense(rows, p+1, nil)
	b := mat.NewVecDense(rows, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			a.Set(i, j, X[i][j])
		}
		a.Set(i, p, 1)
		b.SetVec(i, y[i])
	}
	sqrtLambda := math.Sqrt(lambda)
	for j := 0; j < p; j++ {
		a.Set(n+j, j, sqrtLambda)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return member{}, err
	}

	m := member{Weights: make([]float64, p), Intercept: sol.AtVec(p)}
	for j := 0; j < p; j++ {
		m.Weights[j] = sol.AtVec(j)
	}
	return m, nil
}

// trainTestSplit baraja con el rng y separa holdoutRatio para evaluación.
func trainTestSplit(X [][]float64, y []float64, rng *rand.Rand) (Xtr, Xte [][]float64, ytr, yte []float64) {
	idx := rng.Perm(len(X))
	nTest := int(float64(len(X)) * holdoutRatio)
	if nTest == 0 {
		nTest = 1
	}
	for k, i := range idx {
		if k < nTest {
			Xte = append(Xte, X[i])
			yte = append(yte, y[i])
		} else {
			Xtr = append(Xtr, X[i])
			ytr = append(ytr, y[i])
		}
	}
	return
}

// meanAbsoluteError MAE del ensamble sobre el holdout escalado.
func meanAbsoluteError(model *ensembleModel, X [][]float64, y []float64) float64 {
	if len(X) == 0 {
		return 0
	}
	var sum float64
	for i := range X {
		pred, _ := model.Predict(X[i])
		sum += math.Abs(pred - y[i])
	}
	return sum / float64(len(X))
}

// popStdDev desviación estándar poblacional (divisor n, no n-1).
func popStdDev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
