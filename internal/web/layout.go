package web

import (
	"github.com/rewired-gh/fraudscope/internal/dashboard"
	"github.com/rewired-gh/fraudscope/internal/page"
	"github.com/rewired-gh/fraudscope/internal/predict"
)

// selectOptions lists the choices offered by the prediction form's select controls
var selectOptions = map[string][]string{
	predict.FieldTransactionType:   {"P2P", "P2M", "Bill Payment", "Recharge"},
	predict.FieldTransactionStatus: {"SUCCESS", "FAILED"},
	predict.FieldMerchantCategory: {
		"Entertainment", "Food", "Fuel", "Grocery", "Healthcare",
		"Education", "Shopping", "Transport", "Utilities", "Other",
	},
	predict.FieldDeviceType:  {"Android", "iOS", "Web"},
	predict.FieldNetworkType: {"3G", "4G", "5G", "WiFi"},
	predict.FieldDayOfWeek: {
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	},
}

var numberFields = map[string]bool{
	predict.FieldAmount:      true,
	predict.FieldSenderAge:   true,
	predict.FieldReceiverAge: true,
	predict.FieldHourOfDay:   true,
}

// NewDashboardDocument lays out a dashboard page instance: three KPI text targets
// and four chart containers
func NewDashboardDocument() *page.Document {
	doc := page.NewDocument()
	t := dashboard.DefaultTargets()
	for _, id := range []string{t.KPITotal, t.KPIFraud, t.KPIRate} {
		doc.Add(id, page.TextKind)
	}
	for _, id := range []string{t.PieChart, t.NetworkChart, t.TimeChart, t.TypeChart} {
		doc.Add(id, page.ChartKind)
	}
	return doc
}

// NewPredictionDocument lays out a prediction page instance: the transaction form
// and a hidden result area
func NewPredictionDocument() (*page.Document, *page.Form) {
	doc := page.NewDocument()
	t := predict.DefaultTargets()

	form := page.NewForm(t.Form, predictionControls()...)
	doc.AddForm(form)
	doc.Add(t.ResultCard, page.ContainerKind)
	doc.Add(t.ResultText, page.TextKind)
	return doc, form
}

func predictionControls() []page.Control {
	names := predict.FieldNames()
	controls := make([]page.Control, 0, len(names))
	for _, name := range names {
		c := page.Control{Name: name, Type: page.TextInput}
		switch {
		case name == predict.FieldIsWeekend:
			c.Type = page.CheckboxInput
		case numberFields[name]:
			c.Type = page.NumberInput
		case selectOptions[name] != nil:
			c.Type = page.SelectInput
			c.Options = selectOptions[name]
		}
		controls = append(controls, c)
	}
	return controls
}
