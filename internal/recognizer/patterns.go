package recognizer

import (
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
)

// phrase is a sequence of lowercase token texts matched at consecutive positions.
type phrase []string

func words(ws ...string) []phrase {
	out := make([]phrase, 0, len(ws))
	for _, w := range ws {
		out = append(out, phrase{w})
	}
	return out
}

func (p phrase) matchAt(doc *nlp.Doc, i int) bool {
	if len(p) == 0 || i+len(p) > doc.Len() {
		return false
	}
	for k, w := range p {
		if doc.Tokens[i+k].Lower != w {
			return false
		}
	}
	return true
}

type span struct {
	start, end int
}

// find returns every position where one of the phrases matches, in document order.
func find(doc *nlp.Doc, phrases []phrase) []span {
	var out []span
	for i := 0; i < doc.Len(); i++ {
		for _, p := range phrases {
			if p.matchAt(doc, i) {
				out = append(out, span{i, i + len(p)})
			}
		}
	}
	return out
}

var operatorPatterns = []struct {
	kind    model.OperatorKind
	phrases []phrase
}{
	{model.OpKindEquals, append(words("is", "equals", "equal", "=", "=="), phrase{"=", "="})},
	{model.OpKindNotEquals, append(words("!=", "<>"),
		phrase{"not", "is"}, phrase{"not", "equals"}, phrase{"not", "equal"},
		phrase{"is", "not"}, phrase{"!", "="})},
	{model.OpKindGreater, append(words("greater", "more", "above", ">"), phrase{">", ">"})},
	{model.OpKindLess, append(words("less", "fewer", "below", "<"), phrase{"<", "<"})},
	{model.OpKindLike, append(words("contains", "like", "includes", "has"), phrase{"similar", "to"})},
	{model.OpKindIn, words("in")},
}

// "not" and "no" are negation cues, never boolean values.
var (
	trueWords  = words("true", "yes", "approved", "valid", "enabled")
	falseWords = words("false", "disabled", "invalid")
)

var logicPatterns = []struct {
	kind    model.LogicKind
	phrases []phrase
}{
	{model.LogicKindAnd, words("and", "with")},
	{model.LogicKindOr, words("or")},
}

var intentPatterns = []struct {
	kind    model.IntentKind
	phrases []phrase
}{
	{model.IntentKindShow, words("show", "display", "list", "get", "find", "fetch")},
	{model.IntentKindCount, append(words("count"), phrase{"how", "many"}, phrase{"number", "of"})},
	{model.IntentKindExists, words("has", "does", "is", "are", "exists")},
}

var quantifierPatterns = []struct {
	kind    model.QuantifierKind
	phrases []phrase
}{
	{model.QuantifierAll, words("all", "every")},
	{model.QuantifierAny, words("any", "some")},
}

// device words and the asset type each one stands for
var deviceTypes = map[string]string{
	"plc": "PLC", "plcs": "PLC",
	"scada": "SCADA",
	"hmi": "HMI", "hmis": "HMI",
	"dcs": "DCS",
	"rtu": "RTU", "rtus": "RTU",
}

var riskLevels = map[string]struct{}{"critical": {}, "high": {}, "medium": {}, "low": {}}

// a risk level only counts when a risk word is this close
const riskWindow = 2

var timeWords = map[string]struct{}{
	"recently": {}, "recent": {}, "today": {}, "yesterday": {},
	"week": {}, "month": {}, "since": {}, "newly": {},
}

var vulnWords = map[string]struct{}{
	"vulnerable": {}, "vulnerability": {}, "vulnerabilities": {}, "vuln": {}, "vulns": {},
	"cve": {}, "cves": {}, "exploitable": {}, "unpatched": {},
}

var exclusionWords = map[string]struct{}{"excluding": {}, "except": {}, "without": {}, "exclude": {}}
