package ui

import "strings"

// EnumLabel turns an enum value like SOCIAL_MEDIA into "Social Media".
func EnumLabel(v string) string {
	words := strings.Split(strings.ToLower(v), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// StatusVariant is the badge style of a lead status.
func StatusVariant(status string) string {
	switch status {
	case "NEW":
		return "default"
	case "CONTACTED":
		return "secondary"
	case "CLOSED":
		return "success"
	case "DROPPED":
		return "destructive"
	}
	return "outline"
}
