package insights

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/designhawk/techcrunch/types"
)

var testArticle = types.Article{
	Title:      "Big News",
	Summary:    "Something happened. More detail.",
	Categories: []string{"AI"},
}

func chatBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func newTestGenerator(primary, secondary *chatProvider) *Generator {
	return &Generator{
		primary:   primary,
		secondary: secondary,
		pause:     0,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testProvider(source, url string) *chatProvider {
	return &chatProvider{
		source: source,
		url:    url,
		apiKey: "test-key",
		model:  "test-model",
		client: http.DefaultClient,
	}
}

func TestGenerateInsightPrimarySuccess(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(chatBody(`Sure! {"key_takeaways":["a"],"sentiment":"positive"} thanks`)))
	}))
	defer srv.Close()

	g := newTestGenerator(testProvider(types.SourceOpenRouter, srv.URL), nil)
	ins := g.GenerateInsight(context.Background(), testArticle)

	if ins.Source != types.SourceOpenRouter {
		t.Errorf("source = %q; want openrouter", ins.Source)
	}
	if !reflect.DeepEqual(ins.KeyTakeaways, []string{"a"}) || ins.Sentiment != "positive" {
		t.Errorf("unexpected insight: %+v", ins)
	}
	if gotReq.Temperature != 0.3 {
		t.Errorf("temperature = %v; want 0.3", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestGenerateInsightRateLimitedNoSecondary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := newTestGenerator(testProvider(types.SourceOpenRouter, srv.URL), nil)
	ins := g.GenerateInsight(context.Background(), testArticle)

	if !reflect.DeepEqual(ins, fallbackInsight(testArticle)) {
		t.Errorf("insight = %+v; want rule-based fallback", ins)
	}
}

func TestGenerateInsightRateLimitedUsesSecondary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatBody(`{"key_takeaways":["from mistral"]}`)))
	}))
	defer secondary.Close()

	g := newTestGenerator(
		testProvider(types.SourceOpenRouter, primary.URL),
		testProvider(types.SourceMistral, secondary.URL),
	)
	ins := g.GenerateInsight(context.Background(), testArticle)

	if ins.Source != types.SourceMistral {
		t.Errorf("source = %q; want mistral", ins.Source)
	}
	if !reflect.DeepEqual(ins.KeyTakeaways, []string{"from mistral"}) {
		t.Errorf("key takeaways = %v; want secondary result", ins.KeyTakeaways)
	}
}

func TestGenerateInsightGenericFailureSkipsSecondary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	var secondaryCalls atomic.Int32
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls.Add(1)
		w.Write([]byte(chatBody(`{"key_takeaways":["nope"]}`)))
	}))
	defer secondary.Close()

	g := newTestGenerator(
		testProvider(types.SourceOpenRouter, primary.URL),
		testProvider(types.SourceMistral, secondary.URL),
	)
	ins := g.GenerateInsight(context.Background(), testArticle)

	if got := secondaryCalls.Load(); got != 0 {
		t.Errorf("secondary called %d times on generic failure; want 0", got)
	}
	if !reflect.DeepEqual(ins, fallbackInsight(testArticle)) {
		t.Errorf("insight = %+v; want rule-based fallback", ins)
	}
}

func TestGenerateInsightBothProvidersFail(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer secondary.Close()

	g := newTestGenerator(
		testProvider(types.SourceOpenRouter, primary.URL),
		testProvider(types.SourceMistral, secondary.URL),
	)

	// Must not panic or error, only degrade.
	ins := g.GenerateInsight(context.Background(), testArticle)
	if !reflect.DeepEqual(ins, fallbackInsight(testArticle)) {
		t.Errorf("insight = %+v; want rule-based fallback", ins)
	}
}

func TestGenerateInsightUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatBody("no json in this answer")))
	}))
	defer srv.Close()

	g := newTestGenerator(testProvider(types.SourceOpenRouter, srv.URL), nil)
	ins := g.GenerateInsight(context.Background(), testArticle)

	if !reflect.DeepEqual(ins, fallbackInsight(testArticle)) {
		t.Errorf("insight = %+v; want rule-based fallback", ins)
	}
}

func TestGenerateInsightNoCredential(t *testing.T) {
	g := newTestGenerator(nil, nil)
	ins := g.GenerateInsight(context.Background(), testArticle)

	if !reflect.DeepEqual(ins, fallbackInsight(testArticle)) {
		t.Errorf("insight = %+v; want rule-based fallback", ins)
	}
}

func TestGenerateBatchAlignment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatBody(`{"key_takeaways":["k"]}`)))
	}))
	defer srv.Close()

	articles := []types.Article{
		{Title: "first"},
		{Title: "second"},
		{Title: "third"},
	}

	g := newTestGenerator(testProvider(types.SourceOpenRouter, srv.URL), nil)
	insights := g.GenerateBatch(context.Background(), articles)

	if len(insights) != len(articles) {
		t.Fatalf("insights = %d; want %d", len(insights), len(articles))
	}
	for i := range articles {
		if insights[i].Title != articles[i].Title {
			t.Errorf("insights[%d].Title = %q; want %q", i, insights[i].Title, articles[i].Title)
		}
	}
}
