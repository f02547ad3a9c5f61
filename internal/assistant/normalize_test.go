package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/normanking/nextup/internal/gtd"
)

func TestNormalizeTimeframe(t *testing.T) {
	cases := []struct {
		in   string
		want gtd.Timeframe
	}{
		{"vision", gtd.TimeframeVision},
		{"3_5_year", gtd.Timeframe3To5Year},
		{"1_2_year", gtd.Timeframe1To2Year},
		{"quarterly", gtd.TimeframeQuarterly},
		{"weekly", gtd.TimeframeWeekly},

		{"long-term", gtd.TimeframeVision},
		{"retirement", gtd.TimeframeVision},
		{"10 year", gtd.TimeframeVision},
		{"3-5 year", gtd.Timeframe3To5Year},
		{"5 years", gtd.Timeframe3To5Year},
		{"Medium Term", gtd.Timeframe3To5Year},
		{"annual", gtd.Timeframe1To2Year},
		{"1 year", gtd.Timeframe1To2Year},
		{"Q1", gtd.TimeframeQuarterly},
		{"90 days", gtd.TimeframeQuarterly},
		{"this week", gtd.TimeframeWeekly},
		{"7 days", gtd.TimeframeWeekly},

		{"", gtd.Timeframe1To2Year},
		{"whenever", gtd.Timeframe1To2Year},
		{"fortnight", gtd.Timeframe1To2Year},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeTimeframe(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeTimeframeIdempotent(t *testing.T) {
	inputs := []string{"vision", "3-5 year", "quarterly", "next week", "", "garbage"}
	for _, in := range inputs {
		once := NormalizeTimeframe(in)
		twice := NormalizeTimeframe(string(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want gtd.Category
	}{
		{"high_focus", gtd.CategoryHighFocus},
		{"quick_work", gtd.CategoryQuickWork},
		{"quick_personal", gtd.CategoryQuickPersonal},
		{"home", gtd.CategoryHome},
		{"waiting_for", gtd.CategoryWaitingFor},
		{"someday", gtd.CategorySomeday},

		{"Deep Work", gtd.CategoryHighFocus},
		{"urgent", gtd.CategoryHighFocus},
		{"personal", gtd.CategoryQuickPersonal},
		{"errands", gtd.CategoryQuickPersonal},
		{"household", gtd.CategoryHome},
		{"waiting", gtd.CategoryWaitingFor},
		{"maybe", gtd.CategorySomeday},

		{"", gtd.CategoryQuickWork},
		{"misc", gtd.CategoryQuickWork},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeCategory(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	for _, in := range []string{"urgent", "personal", "", "misc", "home"} {
		once := NormalizeCategory(in)
		assert.Equal(t, once, NormalizeCategory(string(once)), "input %q", in)
	}
}
