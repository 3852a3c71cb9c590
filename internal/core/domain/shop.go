package domain

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

// CodeMethod selects how a shop's confirmation codes are produced.
type CodeMethod string

const (
	// CodeMethodWordlist rotates through a fixed ordered list of words.
	CodeMethodWordlist CodeMethod = "wordlist"
	// CodeMethodTOTP derives a time-based one-time code from a per-shop
	// secret, so a second device can verify without shared state.
	CodeMethodTOTP CodeMethod = "totp"
)

// Shop is a merchant's point-of-sale configuration. One shop per wallet,
// created lazily on first API access.
type Shop struct {
	ID       string     `json:"id"`
	Wallet   string     `json:"wallet"`
	Method   CodeMethod `json:"method"`
	Wordlist string     `json:"wordlist"` // newline-separated, ordered
}

// OTPKey derives the stable per-shop TOTP secret:
// base32(sha256("otpkey" + shop id + wallet)).
func (s *Shop) OTPKey() string {
	sum := sha256.Sum256([]byte("otpkey" + s.ID + s.Wallet))
	return base32.StdEncoding.EncodeToString(sum[:])
}

// Words returns the ordered wordlist with blank lines dropped.
func (s *Shop) Words() []string {
	lines := strings.Split(s.Wordlist, "\n")
	words := make([]string, 0, len(lines))
	for _, l := range lines {
		if w := strings.TrimSpace(l); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// SupportsConfirmation reports whether paid invoices should carry a success
// action pointing at the confirmation endpoint.
func (s *Shop) SupportsConfirmation() bool {
	return s.Method != "" && s.Wordlist != ""
}
