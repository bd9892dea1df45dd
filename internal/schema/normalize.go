package schema

import (
	"regexp"
	"strconv"

	"chatlytics/internal/model"
)

// Normalize applies post-validation normalization in place: the user IP is
// anonymized and the conversation duration is derived from the timestamps.
func Normalize(s *model.Session) {
	s.User.IP = AnonymizeIP(s.User.IP)
	s.ConversationDurationSeconds = int64(s.EndTime.Sub(s.StartTime).Seconds())
}

// AnonymizedIP replaces any value that does not look like an IPv4 address.
const AnonymizedIP = "anonymous"

var ipv4Pattern = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`)

// AnonymizeIP masks the host-identifying half of a dotted-quad IPv4 address:
// "192.168.1.100" becomes "192.168.XXX.XXX". Anything that is not a valid
// dotted quad is treated as already opaque and replaced outright.
func AnonymizeIP(ip string) string {
	m := ipv4Pattern.FindStringSubmatch(ip)
	if m == nil {
		return AnonymizedIP
	}
	for _, octet := range m[1:] {
		n, err := strconv.Atoi(octet)
		if err != nil || n > 255 {
			return AnonymizedIP
		}
	}
	return m[1] + "." + m[2] + ".XXX.XXX"
}
