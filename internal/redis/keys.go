package redisx

import "fmt"

const ns = "reggo:v1"

func KeyRegistrationGraph(id string) string {
	return fmt.Sprintf("%s:registration:%s:graph", ns, id)
}

func KeyRegistrationByRef(reference string) string {
	return fmt.Sprintf("%s:registration:ref:%s", ns, reference)
}

func KeyTicketDetail(code string) string {
	return fmt.Sprintf("%s:ticket:%s", ns, code)
}

func KeyTicketTypes() string {
	return ns + ":ticket_types"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelRegistrationsChanged() string {
	return ns + ":registrations:changed"
}
