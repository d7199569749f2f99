package nlp

import (
	"strings"
)

// MaxDependencyDepth bounds every walk up the head chain.
const MaxDependencyDepth = 100

// Token is one annotated token. Head and Children are indexes into the owning Doc.
type Token struct {
	I        int    `json:"i"`
	Text     string `json:"text"`
	Lower    string `json:"-"`
	Lemma    string `json:"lemma"`
	POS      string `json:"pos"`
	Tag      string `json:"tag"`
	Dep      string `json:"dep"`
	Head     int    `json:"head"`
	Children []int  `json:"children"`
	IsStop   bool   `json:"is_stop"`
	LikeNum  bool   `json:"like_num"`
}

// IsRoot reports whether the token heads itself.
func (t *Token) IsRoot() bool {
	return t.Head == t.I
}

// Span is a noun chunk or named entity summary.
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Doc is an arena of tokens produced by the linguistic engine.
type Doc struct {
	Text       string  `json:"text"`
	Tokens     []Token `json:"tokens"`
	NounChunks []Span  `json:"noun_chunks"`
	Ents       []Span  `json:"ents"`
}

// lexAttrs marks which lexical attributes the engine already supplied.
type lexAttrs struct {
	stop, likeNum bool
}

// NewDoc indexes tokens, links children to heads and fills missing lexical attributes.
func NewDoc(text string, tokens []Token) *Doc {
	return newDoc(text, tokens, nil)
}

func newDoc(text string, tokens []Token, given []lexAttrs) *Doc {
	d := &Doc{Text: text, Tokens: make([]Token, len(tokens))}
	copy(d.Tokens, tokens)

	for i := range d.Tokens {
		t := &d.Tokens[i]
		t.I = i
		t.Lower = strings.ToLower(t.Text)
		if t.Lemma == "" {
			t.Lemma = t.Lower
		}
		if t.Head < 0 || t.Head >= len(d.Tokens) {
			t.Head = i
		}
		t.Children = nil
		if given == nil || !given[i].stop {
			t.IsStop = IsStopWord(t.Lower)
		}
		if given == nil || !given[i].likeNum {
			t.LikeNum = LikeNum(t.Text)
		}
	}
	for i := range d.Tokens {
		h := d.Tokens[i].Head
		if h != i {
			d.Tokens[h].Children = append(d.Tokens[h].Children, i)
		}
	}
	return d
}

// Len returns the number of tokens.
func (d *Doc) Len() int {
	return len(d.Tokens)
}

// At returns the token at index i, or nil when i is out of range.
func (d *Doc) At(i int) *Token {
	if i < 0 || i >= len(d.Tokens) {
		return nil
	}
	return &d.Tokens[i]
}

// Root returns the first sentence root.
func (d *Doc) Root() *Token {
	for i := range d.Tokens {
		if d.Tokens[i].Dep == "ROOT" {
			return &d.Tokens[i]
		}
	}
	for i := range d.Tokens {
		if d.Tokens[i].IsRoot() {
			return &d.Tokens[i]
		}
	}
	return nil
}

// Children returns the child tokens of i in document order.
func (d *Doc) Children(i int) []*Token {
	t := d.At(i)
	if t == nil {
		return nil
	}
	out := make([]*Token, 0, len(t.Children))
	for _, c := range t.Children {
		out = append(out, &d.Tokens[c])
	}
	return out
}

// Ancestors returns the head chain of i, nearest first, excluding i itself.
// It returns nil for an index outside the document.
func (d *Doc) Ancestors(i int) []*Token {
	idx, _ := d.ancestorIndexes(i)
	if idx == nil {
		return nil
	}
	out := make([]*Token, 0, len(idx))
	for _, a := range idx {
		out = append(out, &d.Tokens[a])
	}
	return out
}

// ancestorIndexes walks the head chain. truncated is set when the depth cap stopped the walk.
func (d *Doc) ancestorIndexes(i int) (chain []int, truncated bool) {
	t := d.At(i)
	if t == nil {
		return nil, false
	}
	seen := map[int]struct{}{i: {}}
	cur := t
	for depth := 0; !cur.IsRoot(); depth++ {
		if depth >= MaxDependencyDepth {
			return chain, true
		}
		if _, loop := seen[cur.Head]; loop {
			break
		}
		seen[cur.Head] = struct{}{}
		chain = append(chain, cur.Head)
		cur = &d.Tokens[cur.Head]
	}
	return chain, false
}

// IsAncestor reports whether a is on the head chain of b.
func (d *Doc) IsAncestor(a, b int) bool {
	chain, _ := d.ancestorIndexes(b)
	for _, c := range chain {
		if c == a {
			return true
		}
	}
	return false
}

// Path returns the token indexes from a up to the lowest common ancestor and down to b.
// When the depth cap cut the walk short before a common ancestor was found, the
// partial walk from a is returned instead.
func (d *Doc) Path(a, b int) []int {
	if d.At(a) == nil || d.At(b) == nil {
		return nil
	}
	ca, truncA := d.ancestorIndexes(a)
	cb, truncB := d.ancestorIndexes(b)
	upA := append([]int{a}, ca...)
	upB := append([]int{b}, cb...)

	posB := make(map[int]int, len(upB))
	for k, idx := range upB {
		posB[idx] = k
	}

	lca, ka, kb := -1, 0, 0
	for k, idx := range upA {
		kk, ok := posB[idx]
		if !ok {
			continue
		}
		// deepest common ancestor; on equal depth the lower index wins
		if lca == -1 || k+kk < ka+kb || (k+kk == ka+kb && idx < lca) {
			lca, ka, kb = idx, k, kk
		}
	}
	if lca == -1 {
		if truncA || truncB {
			return upA
		}
		return nil
	}

	path := make([]int, 0, ka+kb+1)
	path = append(path, upA[:ka+1]...)
	for k := kb - 1; k >= 0; k-- {
		path = append(path, upB[k])
	}
	return path
}
