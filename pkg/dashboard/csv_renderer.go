package dashboard

import (
	"bytes"
	"encoding/csv"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type OverviewRenderer interface {
	RenderOverview(overview Overview) (string, error)
}

type CsvRendererImpl struct {
	currency string
}

func NewCsvRenderer(currency string) *CsvRendererImpl {
	return &CsvRendererImpl{currency: currency}
}

// RenderOverview writes one row per payment followed by a subtotal row per day and a final total.
func (r *CsvRendererImpl) RenderOverview(overview Overview) (string, error) {
	amountHeader := "Amount"
	if r.currency != "" {
		amountHeader = fmt.Sprintf("Amount (%s)", r.currency)
	}
	data := [][]string{{"Date", "Client", "Type", amountHeader}}
	for _, group := range overview.Groups {
		for _, p := range group.Payments {
			data = append(data, []string{group.Label, p.DisplayName, p.TypeLabel, p.Amount.StringFixed(2)})
		}
		data = append(data, []string{group.Label, "", "Subtotal", group.Total.StringFixed(2)})
	}
	data = append(data, []string{"Total", "", "", overview.Total.StringFixed(2)})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
