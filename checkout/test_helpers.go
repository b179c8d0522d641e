package checkout

import "github.com/stretchr/testify/mock"

// MatchPayload creates a custom matcher for session payload arguments in mocks
func MatchPayload(matcher func(PaymentSessionPayload) bool) interface{} {
	return mock.MatchedBy(matcher)
}
