package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/pkg/apperror"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
)

// historyCapacity bounds the per-shop payment-hash -> word history. Once an
// entry is evicted, a repeated lookup for that hash issues a fresh word.
const historyCapacity = 23

// shopState is the mutable rotation state for one shop's wordlist method.
// Guarded by its own mutex so distinct shops rotate independently.
type shopState struct {
	mu     sync.Mutex
	words  []string
	cursor int
	order  []string          // payment hashes, insertion order
	issued map[string]string // payment hash -> word
}

func newShopState(words []string) *shopState {
	return &shopState{
		words:  words,
		cursor: -1,
		issued: make(map[string]string),
	}
}

// CodeIssuer implements ports.CodeService. It owns a concurrency-safe map of
// shop id to rotation state; the state is process-local, so a multi-instance
// deployment needs sticky routing by shop id for the wordlist method. The
// TOTP method is stateless and has no such constraint.
type CodeIssuer struct {
	mu     sync.Mutex
	states map[string]*shopState
	now    func() time.Time
	log    zerolog.Logger
}

// NewCodeIssuer creates a CodeIssuer.
func NewCodeIssuer(log zerolog.Logger) *CodeIssuer {
	return &CodeIssuer{
		states: make(map[string]*shopState),
		now:    time.Now,
		log:    log,
	}
}

// GetCode returns the confirmation code for the given payment hash,
// dispatching on the shop's configured method.
func (s *CodeIssuer) GetCode(shop *domain.Shop, paymentHash string) (string, error) {
	switch shop.Method {
	case domain.CodeMethodWordlist:
		return s.nextWord(shop, paymentHash)
	case domain.CodeMethodTOTP:
		return s.timeCode(shop)
	default:
		return "", apperror.ErrIntegrity(fmt.Sprintf("shop %s has no confirmation method configured", shop.ID))
	}
}

// Reset discards the shop's rotation state. The next GetCode starts at the
// first word of the shop's current wordlist with an empty history.
func (s *CodeIssuer) Reset(shop *domain.Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[shop.ID] = newShopState(shop.Words())
	s.log.Debug().Str("shop_id", shop.ID).Msg("shop code state reset")
}

// state returns the shop's rotation state, creating it lazily.
func (s *CodeIssuer) state(shop *domain.Shop) *shopState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[shop.ID]
	if !ok {
		st = newShopState(shop.Words())
		s.states[shop.ID] = st
	}
	return st
}

// nextWord returns the cached word for the hash, or advances the rotation.
func (s *CodeIssuer) nextWord(shop *domain.Shop, paymentHash string) (string, error) {
	st := s.state(shop)

	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.words) == 0 {
		return "", apperror.ErrIntegrity(fmt.Sprintf("shop %s has an empty wordlist", shop.ID))
	}

	if word, ok := st.issued[paymentHash]; ok {
		return word, nil
	}

	st.cursor++
	word := st.words[st.cursor%len(st.words)]
	st.issued[paymentHash] = word
	st.order = append(st.order, paymentHash)

	// FIFO eviction by insertion order, not recency of access.
	for len(st.order) > historyCapacity {
		delete(st.issued, st.order[0])
		st.order = st.order[1:]
	}

	return word, nil
}

// timeCode computes the standard 30-second-step TOTP code from the shop's
// derived secret. No state: reproducible on any device with a clock.
func (s *CodeIssuer) timeCode(shop *domain.Shop) (string, error) {
	secret := strings.TrimRight(shop.OTPKey(), "=")
	code, err := totp.GenerateCode(secret, s.now())
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate totp code: %w", err))
	}
	return code, nil
}
