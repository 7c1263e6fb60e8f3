package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Visually confusable characters (I, L, O, 0, 1) are excluded so codes can be
// read over the phone.
const CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const DefaultCodeAttempts = 5

var ErrCodeExhausted = errors.New("booking code allocation exhausted retries")

// CodeGenerator allocates collision-checked human-readable booking codes.
type CodeGenerator struct {
	Prefix      string
	Length      int
	MaxAttempts int
}

func NewCodeGenerator(prefix string, length int) *CodeGenerator {
	return &CodeGenerator{
		Prefix:      prefix,
		Length:      length,
		MaxAttempts: DefaultCodeAttempts,
	}
}

// Generate returns one candidate code without any uniqueness guarantee.
func (g *CodeGenerator) Generate() (string, error) {
	var sb strings.Builder
	sb.WriteString(g.Prefix)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := 0; i < g.Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(CodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// Allocate draws candidates until isTaken reports a free one, bounded by
// MaxAttempts. Exhaustion is a fatal error for the creation attempt, not a
// silent fallback.
func (g *CodeGenerator) Allocate(ctx context.Context, isTaken func(ctx context.Context, code string) (bool, error)) (string, error) {
	attempts := g.MaxAttempts
	if attempts < DefaultCodeAttempts {
		attempts = DefaultCodeAttempts
	}
	for i := 0; i < attempts; i++ {
		code, err := g.Generate()
		if err != nil {
			return "", err
		}
		taken, err := isTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}
