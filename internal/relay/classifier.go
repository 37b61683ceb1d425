package relay

import "strings"

const greetingToken = "hi"

var interrogatives = []string{"who", "what", "how", "when", "where", "why"}

// Classify maps one inbound message to the action taken for it. Pure and
// total: same input, same action, never fails. The greeting token is
// checked before the question rules, so "hi" never reaches the answer
// service.
func Classify(msg IncomingMessage) Action {
	if msg.FromSelf || msg.FromGroup {
		return Action{Kind: ActionIgnore}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Action{Kind: ActionIgnore}
	}

	norm := strings.ToLower(text)
	if norm == greetingToken {
		return Action{Kind: ActionGreet}
	}

	if strings.HasSuffix(norm, "?") {
		return Action{Kind: ActionAnswer, Question: text}
	}
	for _, w := range interrogatives {
		if strings.HasPrefix(norm, w) {
			return Action{Kind: ActionAnswer, Question: text}
		}
	}

	return Action{Kind: ActionIgnore}
}
