package summon

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// Signer computes the Authorization header of a request.
type Signer struct {
	id  string
	key string
	now func() time.Time
}

// NewSigner returns a signer using the wall clock.
func NewSigner(id, key string) *Signer {
	return &Signer{id: id, key: key, now: time.Now}
}

// Headers returns the signed header set for a request to host+version with
// the given decoded query string. The signed string is every header value in
// order (Accept, x-summon-date, Host, Version) followed by the query, each
// terminated by a newline.
func (s *Signer) Headers(host, version, decodedQuery string) http.Header {
	date := s.now().UTC().Format(http.TimeFormat)

	values := []string{"application/json", date, host, version}
	var b strings.Builder
	for _, v := range values {
		b.WriteString(v)
		b.WriteByte('\n')
	}
	b.WriteString(decodedQuery)
	b.WriteByte('\n')

	h := http.Header{}
	h.Set("Accept", values[0])
	h.Set("x-summon-date", date)
	h.Set("Host", host)
	h.Set("Version", version)
	h.Set("Authorization", "Summon "+s.id+";"+s.digest(b.String()))
	return h
}

func (s *Signer) digest(msg string) string {
	mac := hmac.New(sha1.New, []byte(s.key))
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
