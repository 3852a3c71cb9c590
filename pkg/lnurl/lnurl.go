// Package lnurl implements the wire-level pieces of the LNURL-pay protocol
// (LUD-01/LUD-06/LUD-09): bech32 encoding of static URLs, the pay-request and
// callback response payloads, and the metadata blob format.
package lnurl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
)

// PayResponse is the first-step LNURL-pay response.
type PayResponse struct {
	Callback    string `json:"callback"`
	MinSendable int64  `json:"minSendable"` // millisatoshi
	MaxSendable int64  `json:"maxSendable"` // millisatoshi
	Metadata    string `json:"metadata"`
	Tag         string `json:"tag"` // always "payRequest"
}

// PayActionResponse is the second-step (callback) success response.
type PayActionResponse struct {
	PR            string         `json:"pr"`
	SuccessAction *SuccessAction `json:"successAction,omitempty"`
	Routes        []struct{}     `json:"routes"`
}

// SuccessAction instructs the paying wallet what to do after settlement.
type SuccessAction struct {
	Tag         string `json:"tag"` // "url"
	URL         string `json:"url"`
	Description string `json:"description"`
}

// ErrorResponse is the protocol-level error payload. Per the LNURL spec it is
// always delivered with HTTP status 200 so wallet clients can parse it.
type ErrorResponse struct {
	Status string `json:"status"` // always "ERROR"
	Reason string `json:"reason"`
}

// NewErrorResponse builds an ErrorResponse with the given reason.
func NewErrorResponse(reason string) ErrorResponse {
	return ErrorResponse{Status: "ERROR", Reason: reason}
}

// Metadata is the LNURL-pay metadata: an ordered list of [mimetype, content]
// pairs, JSON-encoded on the wire.
type Metadata [][]string

// Encode serializes the metadata to its wire form.
func (m Metadata) Encode() (string, error) {
	b, err := json.Marshal([][]string(m))
	if err != nil {
		return "", fmt.Errorf("encode lnurl metadata: %w", err)
	}
	return string(b), nil
}

// Encode bech32-encodes a URL under the "lnurl" human-readable part,
// uppercased for efficient QR encoding (LUD-01).
func Encode(url string) (string, error) {
	converted, err := bech32.ConvertBits([]byte(url), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}
	encoded, err := bech32.Encode("lnurl", converted)
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	return strings.ToUpper(encoded), nil
}
