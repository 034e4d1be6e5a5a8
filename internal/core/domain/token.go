package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Token identifies an asset by chain and contract address. Immutable.
type Token struct {
	// ChainID of the network the token lives on.
	ChainID string
	// Address of the token contract, lowercase hex without 0x prefix.
	Address string
	// Decimals is the precision of the token.
	Decimals uint
}

// NewToken returns a token after validating the chain id and the contract
// address format.
func NewToken(chainID, address string, decimals uint) (Token, error) {
	if chainID == "" {
		return Token{}, ErrInvalidTokenChain
	}
	addr, ok := normalizeAddress(address)
	if !ok {
		return Token{}, ErrInvalidTokenAddress
	}
	return Token{ChainID: chainID, Address: addr, Decimals: decimals}, nil
}

// String returns the canonical chain:address form of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s:%s", t.ChainID, t.Address)
}

// Equals ...
func (t Token) Equals(other Token) bool {
	return t.ChainID == other.ChainID && t.Address == other.Address
}

// IsZero ...
func (t Token) IsZero() bool {
	return t == Token{}
}

// Pair is an unordered pair of tokens. The constructor stores the tokens in
// canonical order so that Pair values compare equal regardless of the order
// they were supplied in.
type Pair struct {
	TokenA Token
	TokenB Token
}

// NewPair returns a pair with the two tokens in canonical order.
func NewPair(a, b Token) (Pair, error) {
	if a.Equals(b) {
		return Pair{}, ErrPairTokensEqual
	}
	if a.String() > b.String() {
		a, b = b, a
	}
	return Pair{TokenA: a, TokenB: b}, nil
}

// Key returns the canonical map key of the pair.
func (p Pair) Key() string {
	return fmt.Sprintf("%s/%s", p.TokenA.String(), p.TokenB.String())
}

// Contains ...
func (p Pair) Contains(t Token) bool {
	return p.TokenA.Equals(t) || p.TokenB.Equals(t)
}

// Other returns the pair's token that is not the given one.
func (p Pair) Other(t Token) (Token, error) {
	switch {
	case p.TokenA.Equals(t):
		return p.TokenB, nil
	case p.TokenB.Equals(t):
		return p.TokenA, nil
	default:
		return Token{}, ErrTokenNotInPair
	}
}

func normalizeAddress(address string) (string, bool) {
	addr := strings.ToLower(strings.TrimPrefix(address, "0x"))
	buf, err := hex.DecodeString(addr)
	if err != nil {
		return "", false
	}
	if len(buf) != 20 && len(buf) != 32 {
		return "", false
	}
	return addr, true
}
