package logger

import "strings"

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

var knownStatus = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"skip":      {},
	"mismatch":  {},
	"rejected":  {},
	"dropped":   {},
	"cancelled": {},
}

var knownOutcome = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"cancelled": {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// normalizeStatus lowercases known statuses; unknown values pass through.
func normalizeStatus(status string) string {
	lower := strings.ToLower(strings.TrimSpace(status))
	if _, ok := knownStatus[lower]; ok {
		return lower
	}
	return status
}

func normalizeOutcome(outcome string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(outcome))
	_, ok := knownOutcome[lower]
	return lower, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"handler",
	"category",
	"action",
	"from",
	"to",
	"command",
	"outcome",
	"duration_ms",
	"query_len",
	"response_len",
	"location",
	"model",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"db",
	"host",
	"port",
	"sessions",
	"active",
	"err",
	"err_code",
	"cause",
	"retryable",
}
