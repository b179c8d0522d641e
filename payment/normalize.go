package payment

import "github.com/marcelsud/payment-relay/webhook/payload"

/* Normalize maps a Checkout.com webhook payload into an Event
 * It cannot fail: every field has a default so partial or malformed payloads
 * still produce a record. The processor retries on non-2xx, so rejecting a
 * signed payload here would only cause an endless redelivery loop.
 */
func Normalize(raw payload.Tree) Event {
	data := raw.Object("data")

	eventType := raw.StringOr("type", UnknownEventType)

	var orderRef *string
	if ref, ok := data.Object("metadata").String("order_ref"); ok {
		orderRef = &ref
	}

	processedOn, ok := data.String("processed_on")
	if !ok {
		processedOn = raw.StringOr("timestamp", UnknownTimestamp)
	}

	eventID := raw.StringOr("id", UnknownEventID)
	if eventID == "" {
		eventID = UnknownEventID
	}

	return Event{
		EventID:         eventID,
		PaymentID:       data.StringOr("id", UnknownPaymentID),
		OrderRef:        orderRef,
		EventType:       eventType,
		Status:          StatusFromEventType(eventType),
		Amount:          data.Int64Or("amount", 0),
		Currency:        data.StringOr("currency", UnknownCurrency),
		Email:           data.Object("customer").StringOr("email", UnknownEmail),
		ProcessedOn:     processedOn,
		ResponseCode:    data.StringOr("response_code", UnknownResponseCode),
		ResponseSummary: data.StringOr("response_summary", UnknownResponseSummary),
	}
}
