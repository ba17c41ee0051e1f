package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/billbook/billbook/internal/utils"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var errUnreadableAmount = errors.New("unreadable amount")

// paymentRecord keeps the loosely typed fields raw so one odd record never fails a whole listing.
type paymentRecord struct {
	Id         id              `json:"id"`
	ClientName json.RawMessage `json:"clientName"`
	Date       json.RawMessage `json:"date"`
	Amount     json.RawMessage `json:"amount"`
	ProjectId  id              `json:"projectId"`
	Type       json.RawMessage `json:"type"`
}

type paymentBody struct {
	ClientName string  `json:"clientName"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	ProjectId  string  `json:"projectId"`
	Type       string  `json:"type"`
}

// PaymentRepository is a payment.Repository backed by the /payments resource.
type PaymentRepository struct {
	remote *Client
}

func NewPaymentRepository(remote *Client) *PaymentRepository {
	return &PaymentRepository{remote: remote}
}

func (r *PaymentRepository) List(ctx context.Context) ([]payment.Payment, error) {
	return r.list(ctx, nil)
}

func (r *PaymentRepository) ListByProject(ctx context.Context, projectId string) ([]payment.Payment, error) {
	return r.list(ctx, url.Values{"projectId": []string{projectId}})
}

func (r *PaymentRepository) Create(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	body := paymentBody{
		ClientName: p.ClientName,
		Date:       utils.FormatDate(p.Date),
		Amount:     p.Amount.InexactFloat64(),
		ProjectId:  p.ProjectId,
		Type:       string(p.Type),
	}
	var raw json.RawMessage
	if err := r.remote.send(ctx, "POST", "/payments", body, &raw); err != nil {
		return payment.Payment{}, err
	}
	created, err := decodePayment(raw)
	if err != nil || !created.Dated() {
		// the store echoed something unreadable, keep what was sent
		log.Warnf("Store echoed an unreadable payment, keeping the submitted one: %v", err)
		p.Id = created.Id
		return p, nil
	}
	return created, nil
}

func (r *PaymentRepository) list(ctx context.Context, query url.Values) ([]payment.Payment, error) {
	var raw []json.RawMessage
	if err := r.remote.get(ctx, "/payments", query, &raw); err != nil {
		return nil, err
	}
	payments, skipped := decodePayments(raw)
	if skipped > 0 {
		log.Warnf("Skipped %d of %d payment records without a readable amount", skipped, len(raw))
	}
	return payments, nil
}

// decodePayments converts every record on its own. A record without a readable amount cannot count
// towards any figure and is skipped; skipped is how many were. Records with an unreadable date are
// kept undated, unknown types are kept as they are.
func decodePayments(raw []json.RawMessage) (payments []payment.Payment, skipped int) {
	payments = make([]payment.Payment, 0, len(raw))
	for i, data := range raw {
		p, err := decodePayment(data)
		if err != nil {
			log.Warnf("Skipping payment record %d: %v", i, err)
			skipped++
			continue
		}
		payments = append(payments, p)
	}
	return payments, skipped
}

func decodePayment(data json.RawMessage) (payment.Payment, error) {
	var record paymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return payment.Payment{}, fmt.Errorf("malformed record: %w", err)
	}
	p := payment.Payment{
		Id:         string(record.Id),
		ClientName: rawText(record.ClientName),
		ProjectId:  string(record.ProjectId),
		Type:       payment.Type(rawText(record.Type)),
	}

	amount := rawText(record.Amount)
	if amount == "" {
		return p, fmt.Errorf("payment %s: %w", p.Id, errUnreadableAmount)
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return p, fmt.Errorf("payment %s: %w %q", p.Id, errUnreadableAmount, amount)
	}
	p.Amount = parsed

	if date := rawText(record.Date); date != "" {
		parsedDate, err := utils.ParseDate(date)
		if err != nil {
			log.Warnf("Payment %s has no readable date, keeping it undated: %v", p.Id, err)
		} else {
			p.Date = parsedDate
		}
	}
	return p, nil
}

// rawText is the string held by a JSON string, or the literal text of any other JSON value. Null
// and missing values are empty.
func rawText(data json.RawMessage) string {
	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return text
}
