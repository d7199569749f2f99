package nlp

import (
	"strings"
	"unicode"
)

// English lexical attributes used when the engine does not send is_stop / like_num.

var stopWords = toSet(strings.Fields(`
a about above across after afterwards again against all almost alone along already also although always
am among amongst amount an and another any anyhow anyone anything anyway anywhere are around as at
back be became because become becomes becoming been before beforehand behind being below beside besides
between beyond both bottom but by ca call can cannot could did do does doing done down due during
each eight either eleven else elsewhere empty enough even ever every everyone everything everywhere except
few fifteen fifty first five for former formerly forty four from front full further get give go
had has have he hence her here hereafter hereby herein hereupon hers herself him himself his how however hundred
i if in indeed into is it its itself just keep last latter latterly least less made make many may me
meanwhile might mine more moreover most mostly move much must my myself name namely neither never
nevertheless next nine no nobody none noone nor not nothing now nowhere of off often on once one only onto
or other others otherwise our ours ourselves out over own part per perhaps please put quite rather re
really regarding same say see seem seemed seeming seems serious several she should show side since six sixty
so some somehow someone something sometime sometimes somewhere still such take ten than that the their them
themselves then thence there thereafter thereby therefore therein thereupon these they third this those
though three through throughout thru thus to together too top toward towards twelve twenty two under
unless until up upon us used using various very via was we well were what whatever when whence whenever
where whereafter whereas whereby wherein whereupon wherever whether which while whither who whoever whole
whom whose why will with within without would yet you your yours yourself yourselves
`))

var numWords = toSet(strings.Fields(`
zero one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen
seventeen eighteen nineteen twenty thirty forty fifty sixty seventy eighty ninety hundred thousand
million billion trillion quadrillion gajillion bazillion
`))

var ordinalWords = toSet(strings.Fields(`
first second third fourth fifth sixth seventh eighth ninth tenth eleventh twelfth thirteenth fourteenth
fifteenth sixteenth seventeenth eighteenth nineteenth twentieth thirtieth fortieth fiftieth sixtieth
seventieth eightieth ninetieth hundredth thousandth millionth billionth trillionth
`))

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// IsStopWord reports whether the lowercased word is an English stop word.
func IsStopWord(lower string) bool {
	_, ok := stopWords[lower]
	return ok
}

// LikeNum reports whether text resembles a number: digits (with separators),
// simple fractions, cardinal and ordinal words, or suffixed ordinals like "3rd".
func LikeNum(text string) bool {
	t := strings.TrimLeft(text, "+-~±")
	t = strings.NewReplacer(",", "", ".", "").Replace(t)
	if isDigits(t) {
		return true
	}
	if strings.Count(t, "/") == 1 {
		parts := strings.SplitN(t, "/", 2)
		if isDigits(parts[0]) && isDigits(parts[1]) {
			return true
		}
	}
	lower := strings.ToLower(text)
	if _, ok := numWords[lower]; ok {
		return true
	}
	if _, ok := ordinalWords[lower]; ok {
		return true
	}
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(lower, suffix) && isDigits(lower[:len(lower)-2]) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
