package config

import "strings"

func botAuth(token string) string {
	t := strings.TrimSpace(token)
	if strings.HasPrefix(strings.ToLower(t), "bot ") {
		return "Bot " + strings.TrimSpace(t[4:])
	}
	return "Bot " + t
}
