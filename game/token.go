package game

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// tokenSpace namespaces tokens derived from seeds.
var tokenSpace = uuid.MustParse("6f1c1e0a-5d0b-4b8e-9c53-1f6a2d4c9e71")

// Token is the identity of one participant. Tokens are created once per game
// and ordered by their bytes.
type Token struct {
	id uuid.UUID
}

// NewToken returns a random token.
func NewToken() Token {
	return Token{id: uuid.New()}
}

// SeededToken derives a token from a game seed and a seat number so replays
// of a seeded game see the same tokens.
func SeededToken(seed uint64, seat int) Token {
	var data [16]byte
	binary.BigEndian.PutUint64(data[:8], seed)
	binary.BigEndian.PutUint64(data[8:], uint64(seat))
	return Token{id: uuid.NewSHA1(tokenSpace, data[:])}
}

func (t Token) IsZero() bool {
	return t.id == uuid.Nil
}

func (t Token) Compare(other Token) int {
	return bytes.Compare(t.id[:], other.id[:])
}

// String returns a short stable form for logs and renderers.
func (t Token) String() string {
	return t.id.String()[:8]
}

func (t Token) MarshalText() ([]byte, error) {
	return t.id.MarshalText()
}

func (t *Token) UnmarshalText(data []byte) error {
	return t.id.UnmarshalText(data)
}

// Seats is the immutable turn order of a game.
type Seats struct {
	tokens []Token
}

// NewSeats returns n fresh random tokens in turn order.
func NewSeats(n int) Seats {
	tokens := make([]Token, n)
	for i := range tokens {
		tokens[i] = NewToken()
	}
	return Seats{tokens: tokens}
}

// SeededSeats returns n tokens derived from seed.
func SeededSeats(seed uint64, n int) Seats {
	tokens := make([]Token, n)
	for i := range tokens {
		tokens[i] = SeededToken(seed, i)
	}
	return Seats{tokens: tokens}
}

// SeatsOf returns the given tokens in turn order. Duplicates are rejected.
func SeatsOf(tokens ...Token) (Seats, error) {
	for i, a := range tokens {
		if a.IsZero() {
			return Seats{}, fmt.Errorf("seat %d has no token", i)
		}
		for _, b := range tokens[:i] {
			if a == b {
				return Seats{}, fmt.Errorf("token %v is seated twice", a)
			}
		}
	}
	cp := make([]Token, len(tokens))
	copy(cp, tokens)
	return Seats{tokens: cp}, nil
}

func (s Seats) Len() int {
	return len(s.tokens)
}

func (s Seats) At(i int) Token {
	return s.tokens[i]
}

// Index returns the seat of t, or -1.
func (s Seats) Index(t Token) int {
	for i, token := range s.tokens {
		if token == t {
			return i
		}
	}
	return -1
}

// Next returns the seat after i, wrapping around.
func (s Seats) Next(i int) int {
	return (i + 1) % len(s.tokens)
}

func (s Seats) Tokens() []Token {
	cp := make([]Token, len(s.tokens))
	copy(cp, s.tokens)
	return cp
}

func (s Seats) Compare(other Seats) int {
	return CompareTokens(s.tokens, other.tokens)
}
