package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
)

var (
	cvePattern = regexp.MustCompile(`(?i)^CVE-\d{4}-\d{4,}$`)
	macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)
)

// single letters the tagger sometimes marks as numbers
var numericNoise = map[string]struct{}{"a": {}, "i": {}, "s": {}, "o": {}}

var knownVendors = map[string]struct{}{
	"siemens": {}, "rockwell": {}, "schneider": {}, "abb": {}, "ge": {}, "honeywell": {},
	"yokogawa": {}, "emerson": {}, "cisco": {}, "dell": {}, "hp": {}, "lenovo": {},
	"microsoft": {}, "linux": {}, "windows": {}, "ubuntu": {}, "debian": {}, "redhat": {},
}

// generic nouns that never stand for a value on their own
var valueStopWords = map[string]struct{}{
	"ip": {}, "cve": {}, "site": {}, "asset": {}, "assets": {}, "vulnerability": {},
	"vulnerabilities": {}, "information": {}, "status": {}, "devices": {}, "device": {},
	"network": {}, "system": {}, "systems": {},
	"plc": {}, "plcs": {}, "scada": {}, "hmi": {}, "hmis": {}, "dcs": {}, "rtu": {}, "rtus": {},
}

// IsKnownVendor reports whether the lowercase word is a known vendor or platform.
func IsKnownVendor(lower string) bool {
	_, ok := knownVendors[lower]
	return ok
}

// IsValueStopWord reports whether the lowercase word is too generic to be a value.
func IsValueStopWord(lower string) bool {
	_, ok := valueStopWords[lower]
	return ok
}

func tokenValue(tok *nlp.Token, value any, t model.ValueType) model.ValueEntity {
	return model.ValueEntity{Text: tok.Text, Value: value, Type: t, Start: tok.I, End: tok.I + 1}
}

// CVEExtractor matches a CVE identifier held in one token.
type CVEExtractor struct{}

func (e *CVEExtractor) Name() string { return "cve" }

func (e *CVEExtractor) Extract(tok *nlp.Token, ctx *Context) bool {
	if !cvePattern.MatchString(tok.Text) {
		return false
	}
	ctx.AddValue(tokenValue(tok, strings.ToUpper(tok.Text), model.ValueCVE))
	ctx.AddColumn("CVE", tok.Text, tok.I, tok.I+1)
	return true
}

// IPExtractor matches full dotted IPv4 addresses and 2-3 octet prefixes.
type IPExtractor struct{}

func (e *IPExtractor) Name() string { return "ip" }

func (e *IPExtractor) Extract(tok *nlp.Token, ctx *Context) bool {
	t, value, ok := classifyIP(tok.Text)
	if !ok {
		return false
	}
	ctx.AddValue(tokenValue(tok, value, t))
	ctx.AddColumn("ipv4", "ip", tok.I, tok.I+1)
	return true
}

// classifyIP returns the value to match on. A 2-3 part prefix may end in
// wildcard parts ("10.89.*"); those are dropped, keeping the trailing dot.
func classifyIP(text string) (model.ValueType, string, bool) {
	parts := strings.Split(text, ".")
	switch {
	case len(parts) == 4:
		numeric := 0
		for _, p := range parts {
			if p == "*" {
				continue
			}
			if !isOctet(p) {
				return "", "", false
			}
			numeric++
		}
		if numeric == 0 {
			return "", "", false
		}
		return model.ValueIPAddress, text, true
	case len(parts) == 2 || len(parts) == 3:
		numeric := 0
		for numeric < len(parts) && isOctet(parts[numeric]) {
			numeric++
		}
		if numeric == 0 {
			return "", "", false
		}
		for _, p := range parts[numeric:] {
			if p != "*" {
				return "", "", false
			}
		}
		if numeric == len(parts) {
			return model.ValueIPPrefix, text, true
		}
		return model.ValueIPPrefix, strings.Join(parts[:numeric], ".") + ".", true
	}
	return "", "", false
}

func isOctet(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return false
	}
	return n >= 0 && n <= 255
}

// MACExtractor matches colon or hyphen separated MAC addresses.
type MACExtractor struct{}

func (e *MACExtractor) Name() string { return "mac" }

func (e *MACExtractor) Extract(tok *nlp.Token, ctx *Context) bool {
	if !macPattern.MatchString(tok.Text) {
		return false
	}
	ctx.AddValue(tokenValue(tok, tok.Text, model.ValueMACAddress))
	ctx.AddColumn("mac", tok.Text, tok.I, tok.I+1)
	return true
}

// NumericExtractor parses integers, then floats, from number-like tokens.
type NumericExtractor struct{}

func (e *NumericExtractor) Name() string { return "numeric" }

func (e *NumericExtractor) Extract(tok *nlp.Token, ctx *Context) bool {
	if !tok.LikeNum && tok.POS != "NUM" {
		return false
	}
	if _, noise := numericNoise[tok.Lower]; noise {
		return false
	}
	text := strings.ReplaceAll(tok.Text, ",", "")
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		ctx.AddValue(tokenValue(tok, n, model.ValueInteger))
		return true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		ctx.AddValue(tokenValue(tok, f, model.ValueFloat))
		return true
	}
	return false
}

// QuotedExtractor takes the contents of a token that kept its quotes.
type QuotedExtractor struct{}

func (e *QuotedExtractor) Name() string { return "quoted" }

func (e *QuotedExtractor) Extract(tok *nlp.Token, ctx *Context) bool {
	if !strings.HasPrefix(tok.Text, `"`) && !strings.HasPrefix(tok.Text, "'") {
		return false
	}
	inner := strings.Trim(tok.Text, `"'`)
	if inner == "" {
		return false
	}
	ctx.AddValue(tokenValue(tok, inner, model.ValueString))
	return true
}

// ProperNounExtractor tags proper nouns, as vendor when the name is known.
type ProperNounExtractor struct{}

func (e *ProperNounExtractor) Name() string { return "proper_noun" }

func (e *ProperNounExtractor) Extract(tok *nlp.Token, ctx *Context) bool {
	if tok.POS != "PROPN" {
		return false
	}
	if IsValueStopWord(tok.Lower) || ctx.Schema.IsSynonym(tok.Lower) {
		return false
	}
	t := model.ValueString
	if IsKnownVendor(tok.Lower) {
		t = model.ValueVendor
	}
	ctx.AddValue(tokenValue(tok, tok.Text, t))
	return true
}

// IdentifierExtractor tags nouns containing a digit, such as host names.
type IdentifierExtractor struct{}

func (e *IdentifierExtractor) Name() string { return "identifier" }

func (e *IdentifierExtractor) Extract(tok *nlp.Token, ctx *Context) bool {
	if tok.POS != "NOUN" || !strings.ContainsAny(tok.Text, "0123456789") {
		return false
	}
	ctx.AddValue(tokenValue(tok, tok.Text, model.ValueString))
	return true
}
