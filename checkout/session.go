package checkout

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCart is returned when a session is requested without items
	ErrEmptyCart = errors.New("at least one item must be in the cart")

	// ErrInvalidAmount is returned when the cart does not add up to a positive amount
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

// Item is one cart line as sent by the storefront; Price is in major units
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Units int     `json:"units"`
}

// SessionRequest is the storefront's request for a hosted payment session
type SessionRequest struct {
	Currency string  `json:"currency"`
	Address  Address `json:"address"`
	Items    []Item  `json:"items"`
}

/* PaymentSessionPayload is the body sent to POST /payment-sessions
 * All amounts are in minor units.
 */
type PaymentSessionPayload struct {
	Amount                int64           `json:"amount"`
	Currency              string          `json:"currency"`
	PaymentType           string          `json:"payment_type"`
	SuccessURL            string          `json:"success_url"`
	FailureURL            string          `json:"failure_url"`
	EnabledPaymentMethods []string        `json:"enabled_payment_methods"`
	ProcessingChannelID   string          `json:"processing_channel_id"`
	Billing               Billing         `json:"billing"`
	Customer              Customer        `json:"customer"`
	Items                 []PayloadItem   `json:"items"`
	Metadata              PayloadMetadata `json:"metadata"`
}

type Billing struct {
	Address BillingAddress `json:"address"`
	Phone   Phone          `json:"phone"`
}

type BillingAddress struct {
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
}

type Phone struct {
	CountryCode string `json:"country_code"`
	Number      string `json:"number"`
}

type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone Phone  `json:"phone"`
}

type PayloadItem struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	TotalAmount int64  `json:"total_amount"`
}

type PayloadMetadata struct {
	OrderRef string `json:"order_ref"`
}

// GenerateOrderReference returns YYYYMMDDHHMMSS-<16 hex chars> for now in UTC
func GenerateOrderReference(now time.Time) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s-%s", now.UTC().Format("20060102150405"), random[:16])
}

// BuildPayload maps a storefront request onto the processor's session payload
func BuildPayload(req SessionRequest, settings Settings, orderRef string) (PaymentSessionPayload, error) {
	if len(req.Items) == 0 {
		return PaymentSessionPayload{}, ErrEmptyCart
	}

	items := make([]PayloadItem, 0, len(req.Items))
	var amount int64
	for _, it := range req.Items {
		if it.Units < 0 || it.Price < 0 {
			return PaymentSessionPayload{}, fmt.Errorf("item %q: %w", it.Name, ErrInvalidAmount)
		}
		total := toMinorUnits(it.Price * float64(it.Units))
		items = append(items, PayloadItem{
			Name:        it.Name,
			Quantity:    it.Units,
			UnitPrice:   toMinorUnits(it.Price),
			TotalAmount: total,
		})
		amount += total
	}
	if amount <= 0 {
		return PaymentSessionPayload{}, ErrInvalidAmount
	}

	currency := req.Currency
	if currency == "" {
		currency = settings.DefaultCurrency
	}

	addr := mergeAddress(req.Address, settings.DefaultAddress)
	phone := Phone{CountryCode: settings.PhoneCountryCode, Number: addr.Phone}

	return PaymentSessionPayload{
		Amount:                amount,
		Currency:              currency,
		PaymentType:           settings.PaymentType,
		SuccessURL:            withOrderRef(settings.SuccessURL, orderRef),
		FailureURL:            withOrderRef(settings.FailureURL, orderRef),
		EnabledPaymentMethods: settings.EnabledPaymentMethods,
		ProcessingChannelID:   settings.ProcessingChannelID,
		Billing: Billing{
			Address: BillingAddress{
				AddressLine1: addr.Street,
				AddressLine2: addr.AddressLine2,
				City:         addr.City,
				State:        addr.State,
				Zip:          addr.Postcode,
				Country:      addr.Country,
			},
			Phone: phone,
		},
		Customer: Customer{
			Email: addr.Email,
			Name:  addr.FullName,
			Phone: phone,
		},
		Items:    items,
		Metadata: PayloadMetadata{OrderRef: orderRef},
	}, nil
}

func toMinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// mergeAddress fills every empty field of addr from defaults, except the optional second line
func mergeAddress(addr, defaults Address) Address {
	pick := func(v, d string) string {
		if v != "" {
			return v
		}
		return d
	}
	return Address{
		Street:       pick(addr.Street, defaults.Street),
		AddressLine2: addr.AddressLine2,
		City:         pick(addr.City, defaults.City),
		State:        pick(addr.State, defaults.State),
		Postcode:     pick(addr.Postcode, defaults.Postcode),
		Country:      pick(addr.Country, defaults.Country),
		Phone:        pick(addr.Phone, defaults.Phone),
		Email:        pick(addr.Email, defaults.Email),
		FullName:     pick(addr.FullName, defaults.FullName),
	}
}

func withOrderRef(base, orderRef string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("order_ref", orderRef)
	u.RawQuery = q.Encode()
	return u.String()
}
