// Package payment проверяет уведомления платёжного шлюза PayHere и активирует
// подписку по оплаченному заказу.
package payment

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/virtudress/tryon-catalog/internal/domain"
)

// Поля формы уведомления.
const (
	FieldMerchantID = "merchant_id"
	FieldOrderID    = "order_id"
	FieldAmount     = "payhere_amount"
	FieldCurrency   = "payhere_currency"
	FieldStatusCode = "status_code"
	FieldSignature  = "md5sig"
	FieldCustom1    = "custom_1"
	FieldCustom2    = "custom_2"
)

// Notification разобранное уведомление шлюза.
type Notification struct {
	MerchantID string
	OrderID    string
	Amount     decimal.Decimal
	Currency   string
	StatusCode int
	Signature  string
	Custom1    string
	Custom2    string

	// текст суммы и кода статуса в том виде, в каком его подписал шлюз
	amountText string
	statusText string
}

// ParseNotification строит Notification из формы. Сумма должна быть неотрицательным числом,
// код статуса целым, иначе domain.ErrValidation. Подпись потом проверяется по исходному
// тексту этих полей, а не по их разобранным значениям.
func ParseNotification(form url.Values) (Notification, error) {
	const op = "payment.ParseNotification"

	var missing []string
	for _, field := range []string{FieldMerchantID, FieldOrderID, FieldAmount, FieldCurrency, FieldStatusCode, FieldSignature} {
		if strings.TrimSpace(form.Get(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Notification{}, fmt.Errorf("%s: missing %s: %w", op, strings.Join(missing, ", "), domain.ErrValidation)
	}

	rawAmount := form.Get(FieldAmount)
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || amount.IsNegative() {
		return Notification{}, fmt.Errorf("%s: amount %q is not a number: %w", op, rawAmount, domain.ErrValidation)
	}

	rawStatus := form.Get(FieldStatusCode)
	status, err := strconv.Atoi(rawStatus)
	if err != nil {
		return Notification{}, fmt.Errorf("%s: status code %q is not an integer: %w", op, rawStatus, domain.ErrValidation)
	}

	return Notification{
		MerchantID: form.Get(FieldMerchantID),
		OrderID:    form.Get(FieldOrderID),
		Amount:     amount,
		Currency:   form.Get(FieldCurrency),
		StatusCode: status,
		Signature:  form.Get(FieldSignature),
		Custom1:    form.Get(FieldCustom1),
		Custom2:    form.Get(FieldCustom2),
		amountText: rawAmount,
		statusText: rawStatus,
	}, nil
}

// amountField сумма для подписи: исходный текст из формы либо 0.00-представление.
func (n Notification) amountField() string {
	if n.amountText != "" {
		return n.amountText
	}
	return n.Amount.StringFixed(2)
}

// statusField код статуса для подписи.
func (n Notification) statusField() string {
	if n.statusText != "" {
		return n.statusText
	}
	return strconv.Itoa(n.StatusCode)
}

// Verifier проверяет подпись уведомлений общим секретом мерчанта.
type Verifier struct {
	secret string
}

// NewVerifier создаёт Verifier. Секрет не логируется и не попадает в ошибки.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Sign считает подпись так же, как шлюз: MD5 в верхнем регистре от
// merchant_id, order_id, суммы, валюты, кода статуса, custom-полей в нижнем регистре и секрета.
func (v *Verifier) Sign(n Notification) string {
	var b strings.Builder
	b.WriteString(n.MerchantID)
	b.WriteString(n.OrderID)
	b.WriteString(n.amountField())
	b.WriteString(n.Currency)
	b.WriteString(n.statusField())
	b.WriteString(strings.ToLower(n.Custom1))
	b.WriteString(strings.ToLower(n.Custom2))
	b.WriteString(v.secret)

	sum := md5.Sum([]byte(b.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify сравнивает подпись за постоянное время. Совпадение только точное.
func (v *Verifier) Verify(n Notification) error {
	const op = "payment.Verify"

	if !hmac.Equal([]byte(v.Sign(n)), []byte(n.Signature)) {
		return fmt.Errorf("%s: %w", op, domain.ErrSignatureMismatch)
	}
	return nil
}
