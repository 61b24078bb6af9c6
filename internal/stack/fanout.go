package stack

import "strings"

// SubscriptionProtocol delivers JSON-enveloped mail rather than plain text.
// Some mail providers grade bare automated text harshly in spam heuristics,
// so the format is fixed for every recipient regardless of configuration.
const SubscriptionProtocol = "email-json"

// TopicDisplayName is the fixed display name shown in notification mail.
const TopicDisplayName = "Waitlist Position Updates"

// SubscriptionSpec is one recipient of the fan-out topic.
type SubscriptionSpec struct {
	Endpoint string `json:"endpoint"`
	Protocol string `json:"protocol"`
}

// TopicSpec describes the fan-out notification topic and its subscriptions
// in recipient order.
type TopicSpec struct {
	Name          string             `json:"name"`
	DisplayName   string             `json:"display_name"`
	Arn           string             `json:"arn"`
	Subscriptions []SubscriptionSpec `json:"subscriptions"`
}

func (t TopicSpec) LogicalName() string { return t.Name }

func (t TopicSpec) ARN() string { return t.Arn }

// ParseRecipients splits a recipient list on "," and ";" in any combination.
// Order is preserved and duplicates are kept: one token, one subscription.
// An empty or delimiter-only string yields no recipients, which is a valid
// configuration rather than an error.
func ParseRecipients(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
}

func newTopic(id Identity, arns arnContext, recipients string) TopicSpec {
	name := id.FullName + "-topic"
	addrs := ParseRecipients(recipients)
	subs := make([]SubscriptionSpec, 0, len(addrs))
	for _, addr := range addrs {
		subs = append(subs, SubscriptionSpec{
			Endpoint: addr,
			Protocol: SubscriptionProtocol,
		})
	}
	return TopicSpec{
		Name:          name,
		DisplayName:   TopicDisplayName,
		Arn:           arns.snsTopic(name),
		Subscriptions: subs,
	}
}
