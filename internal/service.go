package internal

// Service identifies the network a message travelled over.
type Service int

const (
	ServiceIMessage Service = iota
	ServiceSMS
	ServiceOther
	ServiceUnknown
)

// ServiceName classifies the service column.
func (m *Message) ServiceName() (Service, string) {
	if m.Service == nil {
		return ServiceUnknown, ""
	}
	switch *m.Service {
	case "iMessage":
		return ServiceIMessage, "iMessage"
	case "SMS":
		return ServiceSMS, "SMS"
	default:
		return ServiceOther, *m.Service
	}
}
