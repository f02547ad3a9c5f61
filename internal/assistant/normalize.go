package assistant

import (
	"strings"

	"github.com/normanking/nextup/internal/gtd"
)

// timeframeSynonyms maps squashed synonyms (lowercased, alphanumeric and
// underscores only) to canonical goal timeframes.
var timeframeSynonyms = map[string]gtd.Timeframe{
	"vision":     gtd.TimeframeVision,
	"longterm":   gtd.TimeframeVision,
	"life":       gtd.TimeframeVision,
	"retirement": gtd.TimeframeVision,
	"retire":     gtd.TimeframeVision,
	"10year":     gtd.TimeframeVision,
	"15year":     gtd.TimeframeVision,
	"20year":     gtd.TimeframeVision,
	"decade":     gtd.TimeframeVision,
	"decades":    gtd.TimeframeVision,

	"3_5_year":   gtd.Timeframe3To5Year,
	"35year":     gtd.Timeframe3To5Year,
	"35years":    gtd.Timeframe3To5Year,
	"3year":      gtd.Timeframe3To5Year,
	"3years":     gtd.Timeframe3To5Year,
	"5year":      gtd.Timeframe3To5Year,
	"5years":     gtd.Timeframe3To5Year,
	"mediumterm": gtd.Timeframe3To5Year,

	"1_2_year": gtd.Timeframe1To2Year,
	"12year":   gtd.Timeframe1To2Year,
	"12years":  gtd.Timeframe1To2Year,
	"1year":    gtd.Timeframe1To2Year,
	"1years":   gtd.Timeframe1To2Year,
	"2year":    gtd.Timeframe1To2Year,
	"2years":   gtd.Timeframe1To2Year,
	"annual":   gtd.Timeframe1To2Year,
	"yearly":   gtd.Timeframe1To2Year,

	"quarterly": gtd.TimeframeQuarterly,
	"quarter":   gtd.TimeframeQuarterly,
	"quarters":  gtd.TimeframeQuarterly,
	"q1":        gtd.TimeframeQuarterly,
	"q2":        gtd.TimeframeQuarterly,
	"q3":        gtd.TimeframeQuarterly,
	"q4":        gtd.TimeframeQuarterly,
	"3month":    gtd.TimeframeQuarterly,
	"3months":   gtd.TimeframeQuarterly,
	"90day":     gtd.TimeframeQuarterly,
	"90days":    gtd.TimeframeQuarterly,

	"weekly":   gtd.TimeframeWeekly,
	"week":     gtd.TimeframeWeekly,
	"weeks":    gtd.TimeframeWeekly,
	"7day":     gtd.TimeframeWeekly,
	"7days":    gtd.TimeframeWeekly,
	"thisweek": gtd.TimeframeWeekly,
	"nextweek": gtd.TimeframeWeekly,
}

// categorySynonyms maps squashed synonyms to canonical task categories.
var categorySynonyms = map[string]gtd.Category{
	"high_focus": gtd.CategoryHighFocus,
	"highfocus":  gtd.CategoryHighFocus,
	"focus":      gtd.CategoryHighFocus,
	"deepwork":   gtd.CategoryHighFocus,
	"important":  gtd.CategoryHighFocus,
	"urgent":     gtd.CategoryHighFocus,
	"priority":   gtd.CategoryHighFocus,

	"quick_work": gtd.CategoryQuickWork,
	"quickwork":  gtd.CategoryQuickWork,
	"work":       gtd.CategoryQuickWork,

	"quick_personal": gtd.CategoryQuickPersonal,
	"quickpersonal":  gtd.CategoryQuickPersonal,
	"personal":       gtd.CategoryQuickPersonal,
	"errand":         gtd.CategoryQuickPersonal,
	"errands":        gtd.CategoryQuickPersonal,

	"home":      gtd.CategoryHome,
	"house":     gtd.CategoryHome,
	"household": gtd.CategoryHome,

	"waiting_for": gtd.CategoryWaitingFor,
	"waitingfor":  gtd.CategoryWaitingFor,
	"waiting":     gtd.CategoryWaitingFor,
	"delegated":   gtd.CategoryWaitingFor,
	"followup":    gtd.CategoryWaitingFor,

	"someday": gtd.CategorySomeday,
	"maybe":   gtd.CategorySomeday,
	"later":   gtd.CategorySomeday,
}

// NormalizeTimeframe coerces an arbitrary timeframe string into one of the
// five accepted values. Canonical values pass through unchanged; recognized
// synonyms map to their canonical form; everything else, including the empty
// string, falls back to 1_2_year. The function is total and idempotent.
func NormalizeTimeframe(raw string) gtd.Timeframe {
	if gtd.ValidTimeframe(gtd.Timeframe(raw)) {
		return gtd.Timeframe(raw)
	}
	if tf, ok := timeframeSynonyms[squash(raw)]; ok {
		return tf
	}
	return gtd.Timeframe1To2Year
}

// NormalizeCategory coerces an arbitrary category string into one of the six
// accepted values, defaulting to quick_work. Total and idempotent, like
// NormalizeTimeframe.
func NormalizeCategory(raw string) gtd.Category {
	if gtd.ValidCategory(gtd.Category(raw)) {
		return gtd.Category(raw)
	}
	if c, ok := categorySynonyms[squash(raw)]; ok {
		return c
	}
	return gtd.CategoryQuickWork
}

// squash lowercases the input and strips everything except letters, digits
// and underscores, so "3-5 year", "3/5 Year" and "35year" all compare equal.
func squash(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
