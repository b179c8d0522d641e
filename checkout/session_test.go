package checkout_test

import (
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/marcelsud/payment-relay/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() checkout.Settings {
	return checkout.Settings{
		ProcessingChannelID:   "pc_zs5fqhybzc2e3jmq3efvybybpq",
		PaymentType:           "Regular",
		SuccessURL:            "https://shop.example.com/checkout-success",
		FailureURL:            "https://shop.example.com/checkout-failure?lang=en",
		DefaultCurrency:       "GBP",
		EnabledPaymentMethods: []string{"googlepay", "applepay", "paypal", "card"},
		PhoneCountryCode:      "+44",
		DefaultAddress: checkout.Address{
			Street:   "123 High St.",
			City:     "London",
			State:    "London",
			Postcode: "SW1A 1AA",
			Country:  "GB",
			Phone:    "07123456789",
			Email:    "test.customer@example.com",
			FullName: "Test Customer",
		},
	}
}

func TestGenerateOrderReference(t *testing.T) {
	now := time.Date(2025, 1, 29, 10, 4, 5, 0, time.FixedZone("BRT", -3*3600))

	ref := checkout.GenerateOrderReference(now)

	assert.Regexp(t, regexp.MustCompile(`^20250129130405-[0-9a-f]{16}$`), ref)
	assert.NotEqual(t, ref, checkout.GenerateOrderReference(now))
}

func TestBuildPayload(t *testing.T) {
	const ref = "20250129100000-abcdef0123456789"

	t.Run("maps cart to minor units", func(t *testing.T) {
		req := checkout.SessionRequest{
			Currency: "EUR",
			Items: []checkout.Item{
				{Name: "Hoodie", Price: 19.99, Units: 3},
				{Name: "Sticker", Price: 0.1, Units: 1},
			},
		}

		p, err := checkout.BuildPayload(req, testSettings(), ref)

		require.NoError(t, err)
		assert.Equal(t, int64(5997+10), p.Amount)
		assert.Equal(t, "EUR", p.Currency)
		require.Len(t, p.Items, 2)
		assert.Equal(t, checkout.PayloadItem{Name: "Hoodie", Quantity: 3, UnitPrice: 1999, TotalAmount: 5997}, p.Items[0])
		assert.Equal(t, int64(10), p.Items[1].UnitPrice)
		assert.Equal(t, ref, p.Metadata.OrderRef)
		assert.Equal(t, "Regular", p.PaymentType)
		assert.Equal(t, "pc_zs5fqhybzc2e3jmq3efvybybpq", p.ProcessingChannelID)
		assert.Equal(t, []string{"googlepay", "applepay", "paypal", "card"}, p.EnabledPaymentMethods)
	})

	t.Run("order reference is appended to return urls", func(t *testing.T) {
		req := checkout.SessionRequest{Items: []checkout.Item{{Name: "Mug", Price: 8, Units: 1}}}

		p, err := checkout.BuildPayload(req, testSettings(), ref)
		require.NoError(t, err)

		success, err := url.Parse(p.SuccessURL)
		require.NoError(t, err)
		assert.Equal(t, ref, success.Query().Get("order_ref"))
		assert.Equal(t, "/checkout-success", success.Path)

		failure, err := url.Parse(p.FailureURL)
		require.NoError(t, err)
		assert.Equal(t, ref, failure.Query().Get("order_ref"))
		assert.Equal(t, "en", failure.Query().Get("lang"))
	})

	t.Run("address defaults fill missing fields", func(t *testing.T) {
		req := checkout.SessionRequest{
			Address: checkout.Address{City: "Manchester", Email: "jo@example.com", FullName: "Jo Bloggs"},
			Items:   []checkout.Item{{Name: "Mug", Price: 8, Units: 1}},
		}

		p, err := checkout.BuildPayload(req, testSettings(), ref)

		require.NoError(t, err)
		assert.Equal(t, "GBP", p.Currency)
		assert.Equal(t, "Manchester", p.Billing.Address.City)
		assert.Equal(t, "123 High St.", p.Billing.Address.AddressLine1)
		assert.Equal(t, "SW1A 1AA", p.Billing.Address.Zip)
		assert.Equal(t, "", p.Billing.Address.AddressLine2)
		assert.Equal(t, checkout.Phone{CountryCode: "+44", Number: "07123456789"}, p.Billing.Phone)
		assert.Equal(t, "jo@example.com", p.Customer.Email)
		assert.Equal(t, "Jo Bloggs", p.Customer.Name)
		assert.Equal(t, p.Billing.Phone, p.Customer.Phone)
	})

	t.Run("error - empty cart", func(t *testing.T) {
		_, err := checkout.BuildPayload(checkout.SessionRequest{}, testSettings(), ref)
		assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	})

	t.Run("error - zero amount", func(t *testing.T) {
		req := checkout.SessionRequest{Items: []checkout.Item{{Name: "Free", Price: 0, Units: 2}}}
		_, err := checkout.BuildPayload(req, testSettings(), ref)
		assert.ErrorIs(t, err, checkout.ErrInvalidAmount)
	})

	t.Run("error - negative price", func(t *testing.T) {
		req := checkout.SessionRequest{Items: []checkout.Item{
			{Name: "Hoodie", Price: 20, Units: 1},
			{Name: "Coupon", Price: -5, Units: 1},
		}}
		_, err := checkout.BuildPayload(req, testSettings(), ref)
		assert.ErrorIs(t, err, checkout.ErrInvalidAmount)
	})
}
