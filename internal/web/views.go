package web

import (
	"embed"
	"encoding/base64"
	"html/template"
	"strings"

	"github.com/rewired-gh/fraudscope/internal/dashboard"
	"github.com/rewired-gh/fraudscope/internal/page"
	"github.com/rewired-gh/fraudscope/internal/predict"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

type kpiView struct {
	ID    string
	Label string
	Text  string
}

type chartView struct {
	ID    string
	Title string
	Image template.URL // SVG data URI, empty when nothing was drawn
}

type dashboardView struct {
	KPIs   []kpiView
	Charts []chartView
}

type controlView struct {
	Name    string
	Label   string
	Type    string
	Options []string
	Value   string
	Checked bool
}

type predictionView struct {
	FormID        string
	Controls      []controlView
	ResultCardID  string
	ResultTextID  string
	ResultVisible bool
	Result        template.HTML
}

func newDashboardView(doc *page.Document) dashboardView {
	t := dashboard.DefaultTargets()

	kpis := []kpiView{
		{ID: t.KPITotal, Label: "Total Transactions"},
		{ID: t.KPIFraud, Label: "Fraud Transactions"},
		{ID: t.KPIRate, Label: "Fraud Rate"},
	}
	for i := range kpis {
		kpis[i].Text = "--"
		if el, ok := doc.Lookup(kpis[i].ID); ok && el.Written() {
			kpis[i].Text = el.Text()
		}
	}

	charts := []chartView{
		{ID: t.PieChart, Title: "Fraud vs Non-Fraud"},
		{ID: t.NetworkChart, Title: "Fraud by Network"},
		{ID: t.TimeChart, Title: "Transactions over Time"},
		{ID: t.TypeChart, Title: "Fraud by Transaction Type"},
	}
	for i := range charts {
		el, ok := doc.Lookup(charts[i].ID)
		if !ok {
			continue
		}
		if inst := el.Latest(); inst != nil {
			charts[i].Image = svgDataURI(inst.Image)
		}
	}

	return dashboardView{KPIs: kpis, Charts: charts}
}

// svgDataURI embeds a rendered chart as an image source, which keeps any markup
// in the SVG inert
func svgDataURI(svg []byte) template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
}

func newPredictionView(doc *page.Document, form *page.Form) predictionView {
	t := predict.DefaultTargets()
	view := predictionView{
		FormID:       t.Form,
		ResultCardID: t.ResultCard,
		ResultTextID: t.ResultText,
	}

	values := form.Values()
	for _, c := range form.Controls() {
		cv := controlView{
			Name:    c.Name,
			Label:   controlLabel(c.Name),
			Options: c.Options,
			Value:   values[c.Name],
		}
		switch c.Type {
		case page.NumberInput:
			cv.Type = "number"
		case page.SelectInput:
			cv.Type = "select"
		case page.CheckboxInput:
			cv.Type = "checkbox"
			cv.Checked = form.Checked(c.Name)
		default:
			cv.Type = "text"
		}
		view.Controls = append(view.Controls, cv)
	}

	if card, ok := doc.Lookup(t.ResultCard); ok {
		view.ResultVisible = card.Visible()
	}
	if text, ok := doc.Lookup(t.ResultText); ok {
		// content is either escaped plain text or sanitized result markup
		view.Result = template.HTML(text.HTML())
	}
	return view
}

func controlLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
