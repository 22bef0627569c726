package groupagg

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ApplyTransform runs one per-line transform op over a single field's raw
// value and returns its one-field textual result (Per-line
// transforms). These never participate in grouping; the driver invokes
// this directly, once per input record, for each transform op in the plan.
func (op *OpInstance) ApplyTransform(raw []byte, opts *TextOptions) (string, error) {
	s := string(raw)
	switch op.Spec.Kind {
	case OpBase64:
		return base64.StdEncoding.EncodeToString(raw), nil
	case OpDebase64:
		dec, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", parseErrorf("invalid base64 input: %q", s)
		}
		return string(dec), nil
	case OpMd5:
		sum := md5.Sum(raw)
		return hex.EncodeToString(sum[:]), nil
	case OpSha1:
		sum := sha1.Sum(raw)
		return hex.EncodeToString(sum[:]), nil
	case OpSha256:
		sum := sha256.Sum256(raw)
		return hex.EncodeToString(sum[:]), nil
	case OpSha512:
		sum := sha512.Sum512(raw)
		return hex.EncodeToString(sum[:]), nil
	case OpBin:
		return transformBin(s, op.Param.floatOr(100))
	case OpStrBin:
		return transformStrBin(s, op.Param.intOr(10))
	case OpRound:
		return transformRound(s, math.Round)
	case OpFloor:
		return transformRound(s, math.Floor)
	case OpCeil:
		return transformRound(s, math.Ceil)
	case OpTrunc:
		return transformRound(s, math.Trunc)
	case OpFrac:
		return transformFrac(s)
	case OpDirname:
		return filepath.Dir(s), nil
	case OpBasename:
		return filepath.Base(s), nil
	case OpExtname:
		return filepath.Ext(s), nil
	case OpBarename:
		base := filepath.Base(s)
		return strings.TrimSuffix(base, filepath.Ext(base)), nil
	case OpGetNum:
		return transformGetNum(s, op.Param.strOr("p"))
	case OpCut:
		return s, nil
	}
	return "", parseErrorf("%s is not a per-line transform", op.Spec.Name)
}

func transformBin(s string, bucket float64) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", fmt.Errorf("invalid numeric input: %q", s)
	}
	bucketed := math.Floor(v/bucket) * bucket
	return strconv.FormatFloat(bucketed, 'g', -1, 64), nil
}

func transformStrBin(s string, buckets int) (string, error) {
	if buckets <= 0 {
		return "", parseErrorf("strbin bucket count must be positive")
	}
	h := fnv32(s)
	return strconv.Itoa(int(h % uint32(buckets))), nil
}

func fnv32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

func transformRound(s string, f func(float64) float64) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", fmt.Errorf("invalid numeric input: %q", s)
	}
	return strconv.FormatFloat(f(v), 'g', -1, 64), nil
}

func transformFrac(s string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", fmt.Errorf("invalid numeric input: %q", s)
	}
	_, frac := math.Modf(v)
	return strconv.FormatFloat(frac, 'g', -1, 64), nil
}

var (
	getNumInt = regexp.MustCompile(`[-+]?[0-9]+`)
	getNumDec = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?`)
	getNumHex = regexp.MustCompile(`(0[xX])?[0-9a-fA-F]+`)
	getNumOct = regexp.MustCompile(`[0-7]+`)
	getNumNat = regexp.MustCompile(`[0-9]+`)
)

// transformGetNum extracts the first substring matching the requested
// numeric type letter (h=hex, o=octal, i=integer, n=natural number,
// d=decimal/float, p=plain decimal, the default) from s.
func transformGetNum(s, typ string) (string, error) {
	var re *regexp.Regexp
	switch typ {
	case "h":
		re = getNumHex
	case "o":
		re = getNumOct
	case "i":
		re = getNumInt
	case "n":
		re = getNumNat
	case "d", "p":
		re = getNumDec
	default:
		return "", parseErrorf("unknown getnum type %q", typ)
	}
	m := re.FindString(s)
	if m == "" {
		return "", parseErrorf("no number of type %q found in %q", typ, s)
	}
	return m, nil
}

func (p OpParam) intOr(def int) int {
	if p.set {
		if p.isInt {
			return p.i
		}
		return int(p.f)
	}
	return def
}

func (p OpParam) strOr(def string) string {
	if p.set && p.str != "" {
		return p.str
	}
	return def
}
