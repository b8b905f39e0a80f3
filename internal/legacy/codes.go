package legacy

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"strconv"
)

const (
	ticketAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ticketLength   = 12
	maxTicketTries = 16
)

var errTicketSpace = errors.New("could not generate an unused ticket id")

type codeGenerator struct {
	rnd io.Reader
}

func newCodeGenerator() *codeGenerator {
	return &codeGenerator{rnd: rand.Reader}
}

func (g *codeGenerator) intn(n int64) (int64, error) {
	v, err := rand.Int(g.rnd, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// ticketID returns 12 characters drawn uniformly from A-Z and 0-9.
func (g *codeGenerator) ticketID() (string, error) {
	b := make([]byte, ticketLength)
	for i := range b {
		n, err := g.intn(int64(len(ticketAlphabet)))
		if err != nil {
			return "", err
		}
		b[i] = ticketAlphabet[n]
	}
	return string(b), nil
}

func (g *codeGenerator) uniqueTicketID(taken map[string]struct{}) (string, error) {
	for i := 0; i < maxTicketTries; i++ {
		id, err := g.ticketID()
		if err != nil {
			return "", err
		}
		if _, dup := taken[id]; !dup {
			return id, nil
		}
	}
	return "", errTicketSpace
}

// verificationCode returns six digits in 100000..999999.
func (g *codeGenerator) verificationCode() (string, error) {
	n, err := g.intn(900000)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n, 10), nil
}
