package semantic

import (
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
)

var operatorKinds = map[model.OperatorKind]string{
	model.OpKindEquals:    model.OpEquals,
	model.OpKindNotEquals: model.OpNotEquals,
	model.OpKindGreater:   model.OpGreater,
	model.OpKindLess:      model.OpLess,
	model.OpKindLike:      model.OpLike,
	model.OpKindIn:        model.OpEquals,
}

var (
	negationWords = set("not", "no", "never")
	negationCues  = set("excluding", "except", "without", "not")
	likeBetween   = set("contains", "like", "includes", "has")
	greaterWords  = set("greater", "more", "above", "over")
	lessWords     = set("less", "fewer", "below", "under")
	containsWords = set("contains", "contain", "like", "includes", "include", "has", "with")
	prefixWords   = set("start", "starts", "begin", "begins")
	suffixWords   = set("ends", "finishes")
	affectedWords = set("affected", "vulnerable", "impacted")
)

// how far back a negation cue reaches
const negationWindow = 3

func set(ws ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ws))
	for _, w := range ws {
		m[w] = struct{}{}
	}
	return m
}

func has(m map[string]struct{}, tok *nlp.Token) bool {
	if _, ok := m[tok.Lower]; ok {
		return true
	}
	_, ok := m[tok.Lemma]
	return ok
}

func hasLower(m map[string]struct{}, tok *nlp.Token) bool {
	_, ok := m[tok.Lower]
	return ok
}

// isNegated reports a "neg" child, a negating ancestor, or a negation cue
// among the few tokens before i.
func isNegated(doc *nlp.Doc, i int) bool {
	for _, c := range doc.Children(i) {
		if c.Dep == "neg" {
			return true
		}
	}
	for _, a := range doc.Ancestors(i) {
		if hasLower(negationWords, a) {
			return true
		}
	}
	for k := i - negationWindow; k < i; k++ {
		if t := doc.At(k); t != nil && hasLower(negationCues, t) {
			return true
		}
	}
	return false
}

// inferOperator picks the comparison between the column token and the value
// token. A non-contains match mode always comes with LIKE.
func inferOperator(doc *nlp.Doc, ents *model.Entities, col, val int) (string, model.MatchMode) {
	lo, hi := col, val
	if lo > hi {
		lo, hi = hi, lo
	}

	for _, op := range ents.Operators {
		if op.Start >= lo && op.Start <= hi {
			if sqlOp, ok := operatorKinds[op.Kind]; ok {
				return sqlOp, model.MatchContains
			}
		}
	}

	for k := lo + 1; k < hi; k++ {
		if doc.Tokens[k].Lower == "in" {
			return model.OpEquals, model.MatchContains
		}
	}

	if isNegated(doc, col) || isNegated(doc, val) {
		return model.OpNotEquals, model.MatchContains
	}

	for k := lo + 1; k < hi; k++ {
		if hasLower(likeBetween, &doc.Tokens[k]) {
			return model.OpLike, model.MatchContains
		}
	}

	if op, match, ok := pathOperator(doc, col, val); ok {
		return op, match
	}

	valTok, colTok := doc.At(val), doc.At(col)
	if valTok.Dep == "pobj" || valTok.Dep == "dobj" {
		if head := doc.At(valTok.Head); head != nil && head.I != valTok.I && head.POS == "ADP" {
			switch head.Lower {
			case "in":
				return model.OpEquals, model.MatchContains
			case "with", "containing":
				return model.OpLike, model.MatchContains
			}
		}
	}
	if head := doc.At(colTok.Head); head != nil && head.I != colTok.I && hasLower(affectedWords, head) {
		return model.OpLike, model.MatchContains
	}

	return model.OpEquals, model.MatchContains
}

// pathOperator scans the dependency path and the value's own modifiers for comparison cues.
func pathOperator(doc *nlp.Doc, col, val int) (string, model.MatchMode, bool) {
	// Path meets at the deepest common ancestor, lowest index on equal depth,
	// not the lowest-index common ancestor overall.
	candidates := doc.Path(col, val)
	candidates = append(candidates, doc.Tokens[val].Children...)

	for _, k := range candidates {
		tok := &doc.Tokens[k]
		switch {
		case has(greaterWords, tok):
			return model.OpGreater, model.MatchContains, true
		case has(lessWords, tok):
			return model.OpLess, model.MatchContains, true
		case has(prefixWords, tok):
			return model.OpLike, model.MatchPrefix, true
		case has(suffixWords, tok):
			return model.OpLike, model.MatchSuffix, true
		case has(containsWords, tok):
			return model.OpLike, model.MatchContains, true
		}
	}
	return "", model.MatchContains, false
}
