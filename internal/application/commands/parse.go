package commands

import "strings"

// ParseMessage splits a chat line into a lowercase command and its arguments.
// ok is false when the line lacks the prefix or carries only the prefix.
func ParseMessage(prefix, content string) (command string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// stripUnderscores removes the placeholder underscores users copy from the
// help text. hinted reports whether the arguments started with one.
func stripUnderscores(args []string) (cleaned []string, hinted bool) {
	if !strings.HasPrefix(strings.Join(args, " "), "_") {
		return args, false
	}
	cleaned = make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.ReplaceAll(a, "_", ""); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	return cleaned, true
}
