package tower

import (
	"math/big"
	"strconv"
	"strings"

	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// ParseNumber parses a numeric literal token (already isolated from
// surrounding reader syntax) in the given radix: an optional sign,
// digits, an optional "/" rational separator, and for radix 10 an
// optional "." and/or exponent marker that forces a float result.
//
// radix must be between 2 and 36; radix other than 10 never produces a
// float, matching the reader's own restriction that #b/#o/#x/#nr literals
// are always exact.
func ParseNumber(token string, radix int) (value.Value, error) {
	if radix < 2 || radix > 36 {
		return value.Value{}, vmerrors.BadArg("parse-number", "radix out of range")
	}
	if token == "" {
		return value.Value{}, vmerrors.BadArg("parse-number", "empty token")
	}

	if radix == 10 {
		if idx := strings.IndexByte(token, '/'); idx >= 0 {
			return parseRational(token, idx, 10)
		}
		if looksFloat(token) {
			f, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return value.Value{}, vmerrors.BadArg("parse-number", "malformed float")
			}
			return NewFloat(f).AsValue(), nil
		}
		return parseInteger(token, 10)
	}

	if idx := strings.IndexByte(token, '/'); idx >= 0 {
		return parseRational(token, idx, radix)
	}
	return parseInteger(token, radix)
}

func looksFloat(token string) bool {
	body := token
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	return strings.ContainsAny(body, ".eE")
}

func parseInteger(token string, radix int) (value.Value, error) {
	i, ok := new(big.Int).SetString(token, radix)
	if !ok {
		return value.Value{}, vmerrors.BadArg("parse-number", "malformed integer")
	}
	return FromBigInt(i), nil
}

func parseRational(token string, slash int, radix int) (value.Value, error) {
	numTok, denTok := token[:slash], token[slash+1:]
	num, ok := new(big.Int).SetString(numTok, radix)
	if !ok {
		return value.Value{}, vmerrors.BadArg("parse-number", "malformed rational numerator")
	}
	den, ok := new(big.Int).SetString(denTok, radix)
	if !ok {
		return value.Value{}, vmerrors.BadArg("parse-number", "malformed rational denominator")
	}
	if den.Sign() == 0 {
		return value.Value{}, vmerrors.DivisionByZero()
	}
	r := new(big.Rat).SetFrac(num, den)
	return FromBigRat(r), nil
}
