package extractor

import (
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

// ClaimCVESpans finds CVE identifiers the tokenizer split apart, e.g.
// "CVE-2017", "-", "12819", and records each as one value spanning all pieces.
func ClaimCVESpans(ctx *Context) {
	toks := ctx.Doc.Tokens
	for i := 0; i < len(toks); i++ {
		if ctx.isClaimed(i) {
			continue
		}
		end := -1
		switch {
		case i+2 < len(toks) &&
			strings.HasPrefix(strings.ToUpper(toks[i].Text), "CVE-") &&
			toks[i+1].Text == "-" &&
			cvePattern.MatchString(toks[i].Text+toks[i+1].Text+toks[i+2].Text):
			end = i + 3
		case i+1 < len(toks) &&
			strings.HasPrefix(strings.ToUpper(toks[i].Text), "CVE-") &&
			strings.HasPrefix(toks[i+1].Text, "-") &&
			cvePattern.MatchString(toks[i].Text+toks[i+1].Text):
			end = i + 2
		}
		if end < 0 {
			continue
		}

		var sb strings.Builder
		for k := i; k < end; k++ {
			sb.WriteString(toks[k].Text)
			ctx.Claimed[k] = struct{}{}
		}
		text := sb.String()
		ctx.AddValue(model.ValueEntity{
			Text:  text,
			Value: strings.ToUpper(text),
			Type:  model.ValueCVE,
			Start: i,
			End:   end,
		})
		ctx.AddColumn("CVE", text, i, end)
		i = end - 1
	}
}
