package forecast

import (
	"time"

	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// numFeatures largo fijo del vector de features por hora:
// [hora_del_día, día_de_semana (lunes=0), es_fin_de_semana,
//  es_horario_comercial (9-17 inclusive), monto_total, transacciones,
//  unidades, ticket_promedio]. El target es transacciones.
const numFeatures = 8

// mondayWeekday convierte time.Weekday (domingo=0) a la convención lunes=0..domingo=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func calendarFeatures(t time.Time) (hourOfDay, dayOfWeek, isWeekend, isBusinessHour float64) {
	hourOfDay = float64(t.Hour())
	dow := mondayWeekday(t)
	dayOfWeek = float64(dow)
	if dow >= 5 {
		isWeekend = 1
	}
	if t.Hour() >= 9 && t.Hour() <= 17 {
		isBusinessHour = 1
	}
	return
}

// bucketFeatures vector de entrenamiento de una cubeta horaria histórica.
func bucketFeatures(b repository.HourlyBucketRow) []float64 {
	hour, dow, weekend, business := calendarFeatures(b.Hour)
	total, _ := b.TotalAmount.Float64()
	avg := 0.0
	if b.TransactionCount > 0 {
		avg = total / float64(b.TransactionCount)
	}
	return []float64{
		hour, dow, weekend, business,
		total, float64(b.TransactionCount), float64(b.ItemsCount), avg,
	}
}

// predictionFeatures vector de una hora futura: calendario de la hora objetivo
// más el contexto histórico de esa misma hora del día (promedios de 4 semanas).
func predictionFeatures(target time.Time, ctx repository.HourContext) []float64 {
	hour, dow, weekend, business := calendarFeatures(target)
	return []float64{
		hour, dow, weekend, business,
		ctx.AvgAmount, ctx.AvgTransactions, ctx.AvgItems, ctx.AvgTransactionValue,
	}
}

// trainingMatrix arma X e y a partir de las cubetas horarias.
func trainingMatrix(buckets []repository.HourlyBucketRow) ([][]float64, []float64) {
	X := make([][]float64, 0, len(buckets))
	y := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		X = append(X, bucketFeatures(b))
		y = append(y, float64(b.TransactionCount))
	}
	return X, y
}
