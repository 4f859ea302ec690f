// Package relay classifies inbound chat events and forwards plain content to
// the ticket backend, replying to the user with the outcome.
package relay

import "strings"

// ParseCommand splits text of the form "/command@BotName arg1 arg2" into the
// command and its arguments. The @BotName suffix is optional and matched
// case-insensitively; a suffix addressing a different bot is not our command.
// Anything that does not parse is plain content: ("", nil), never an error.
func ParseCommand(text, botName string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	head := strings.TrimPrefix(fields[0], "/")
	if head == "" {
		return "", nil
	}
	if at := strings.Index(head, "@"); at >= 0 {
		if !strings.EqualFold(head[at+1:], botName) {
			return "", nil
		}
		head = head[:at]
		if head == "" {
			return "", nil
		}
	}
	return head, fields[1:]
}
