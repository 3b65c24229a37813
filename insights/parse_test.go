package insights

import (
	"reflect"
	"testing"
)

func TestParseInsightResponse(t *testing.T) {
	text := `Sure! {"key_takeaways":["a"],"sentiment":"positive"} thanks`

	ins, ok := parseInsightResponse(text, "My Title")
	if !ok {
		t.Fatal("expected successful parse")
	}
	if ins.Title != "My Title" {
		t.Errorf("title = %q; want echo of article title", ins.Title)
	}
	if !reflect.DeepEqual(ins.KeyTakeaways, []string{"a"}) {
		t.Errorf("key takeaways = %v; want [a]", ins.KeyTakeaways)
	}
	if ins.Sentiment != "positive" {
		t.Errorf("sentiment = %q; want positive", ins.Sentiment)
	}
	if ins.ImpactAnalysis != "" {
		t.Errorf("impact analysis = %q; want empty default", ins.ImpactAnalysis)
	}
	if !reflect.DeepEqual(ins.RelatedTech, []string{}) {
		t.Errorf("related tech = %v; want empty list", ins.RelatedTech)
	}
	if ins.ReadTimeEstimate != "medium" {
		t.Errorf("read time = %q; want medium default", ins.ReadTimeEstimate)
	}
}

func TestParseInsightResponseAllFields(t *testing.T) {
	text := `{"key_takeaways":["a","b","c"],"impact_analysis":"big","related_tech":["go","rss"],"sentiment":"negative","read_time_estimate":"long"}`

	ins, ok := parseInsightResponse(text, "t")
	if !ok {
		t.Fatal("expected successful parse")
	}
	if len(ins.KeyTakeaways) != 3 || ins.ImpactAnalysis != "big" ||
		len(ins.RelatedTech) != 2 || ins.Sentiment != "negative" || ins.ReadTimeEstimate != "long" {
		t.Errorf("unexpected insight: %+v", ins)
	}
}

func TestParseInsightResponseFailures(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"no braces", "no json here"},
		{"empty", ""},
		{"invalid json", "{not valid json}"},
		{"reversed braces", "} nothing {"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, ok := parseInsightResponse(c.text, "t"); ok {
				t.Errorf("parse of %q should fail", c.text)
			}
		})
	}
}
