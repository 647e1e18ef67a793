package dashboard

import (
	"github.com/rewired-gh/fraudscope/internal/chart"
	"github.com/rewired-gh/fraudscope/internal/models"
)

// Fixed palette. The fraud/non-fraud colors and order are part of the chart contract.
const (
	ColorFraud    = "#EF4444"
	ColorNonFraud = "#22C55E"
	ColorNetwork  = "#2563EB"
	ColorTrend    = "#2563EB"
	ColorType     = "#0F172A"
)

// Series labels
const (
	LabelFraud        = "Fraud"
	LabelNonFraud     = "Non-Fraud"
	LabelFraudCount   = "Fraud Count"
	LabelTransactions = "Transactions"
)

// trendTension is the curve smoothing of the transactions-over-time line
const trendTension = 0.3

// FraudPieSpec builds the two-category proportion chart. Fraud always comes first,
// whichever value is larger.
func FraudPieSpec(split models.FraudSplit) chart.Spec {
	return chart.Spec{
		Kind:       chart.Doughnut,
		Labels:     []string{LabelFraud, LabelNonFraud},
		ShowLegend: true,
		Datasets: []chart.Dataset{{
			Data:             []float64{float64(split.Fraud), float64(split.NonFraud)},
			BackgroundColors: []string{ColorFraud, ColorNonFraud},
		}},
	}
}

// FraudByNetworkSpec builds one bar per network, in mapping order, without a legend
func FraudByNetworkSpec(counts *models.OrderedCounts) chart.Spec {
	return countBarSpec(counts, ColorNetwork)
}

// FraudByTypeSpec builds one bar per transaction type, in mapping order, without a legend
func FraudByTypeSpec(counts *models.OrderedCounts) chart.Spec {
	return countBarSpec(counts, ColorType)
}

// TransactionsOverTimeSpec builds a single smoothed, unfilled trend line over the
// mapping's keys as the ordered x-axis
func TransactionsOverTimeSpec(counts *models.OrderedCounts) chart.Spec {
	labels, data := series(counts)
	return chart.Spec{
		Kind:       chart.Line,
		Labels:     labels,
		ShowLegend: true,
		Datasets: []chart.Dataset{{
			Label:       LabelTransactions,
			Data:        data,
			BorderColor: ColorTrend,
			Fill:        false,
			Tension:     trendTension,
		}},
	}
}

func countBarSpec(counts *models.OrderedCounts, color string) chart.Spec {
	labels, data := series(counts)
	return chart.Spec{
		Kind:       chart.Bar,
		Labels:     labels,
		ShowLegend: false,
		Datasets: []chart.Dataset{{
			Label:            LabelFraudCount,
			Data:             data,
			BackgroundColors: []string{color},
		}},
	}
}

func series(counts *models.OrderedCounts) ([]string, []float64) {
	if counts == nil {
		return []string{}, []float64{}
	}
	labels := counts.Keys()
	values := counts.Values()
	data := make([]float64, len(values))
	for i, v := range values {
		data[i] = float64(v)
	}
	return labels, data
}
