package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"time"
)

// nonceLife is the validity window of a token tick. A token verifies during
// its own tick and the one after, so effective lifetime is one to two ticks.
const nonceLife = 12 * time.Hour

// Nonce issues and verifies HMAC form tokens bound to an action string.
// Tokens are time-windowed, not single-use.
type Nonce struct {
	secret []byte
	now    func() time.Time
}

// NewNonce creates a Nonce keyed by secret. An empty secret gets a random
// per-process key, which means tokens do not survive restarts.
func NewNonce(secret string) *Nonce {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &Nonce{secret: key, now: time.Now}
}

// Token returns the current token for an action.
func (n *Nonce) Token(action string) string {
	return n.tokenAt(action, n.tick())
}

// Verify reports whether token is valid for action, accepting the current
// and the previous tick.
func (n *Nonce) Verify(token, action string) bool {
	if token == "" {
		return false
	}
	tick := n.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(token), []byte(n.tokenAt(action, t))) {
			return true
		}
	}
	return false
}

// Field renders a hidden input carrying the current token.
func (n *Nonce) Field(action, fieldName string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<input type="hidden" name="%s" value="%s">`,
		template.HTMLEscapeString(fieldName),
		template.HTMLEscapeString(n.Token(action)),
	))
}

func (n *Nonce) tick() int64 {
	return n.now().Unix() / int64(nonceLife/time.Second)
}

func (n *Nonce) tokenAt(action string, tick int64) string {
	mac := hmac.New(sha256.New, n.secret)
	fmt.Fprintf(mac, "%s|%d", action, tick)
	return hex.EncodeToString(mac.Sum(nil))[:20]
}
