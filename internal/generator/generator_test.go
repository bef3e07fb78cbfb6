package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/finprep/certquiz-backend/internal/config"
	"github.com/rs/zerolog"
)

func validCandidate() Candidate {
	return Candidate{
		QuestionText:  "What is a callable bond?",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: 1,
		Explanation:   "The issuer can redeem it early.",
	}
}

func TestValidateCandidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Candidate)
		wantErr bool
	}{
		{"valid", func(c *Candidate) {}, false},
		{"no explanation is fine", func(c *Candidate) { c.Explanation = "" }, false},
		{"empty question", func(c *Candidate) { c.QuestionText = "  " }, true},
		{"three options", func(c *Candidate) { c.Options = c.Options[:3] }, true},
		{"five options", func(c *Candidate) { c.Options = append(c.Options, "E") }, true},
		{"blank option", func(c *Candidate) { c.Options[2] = " " }, true},
		{"index too high", func(c *Candidate) { c.CorrectAnswer = 4 }, true},
		{"negative index", func(c *Candidate) { c.CorrectAnswer = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)
			err := ValidateCandidate(c)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCandidate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} Enjoy!`, `{"a":1}`},
		{"no object", "no json here", ""},
		{"unbalanced", "} {", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func testClient(baseURL string, retries int) *Client {
	cfg := &config.Config{
		GeneratorBaseURL: baseURL,
		GeneratorAPIKey:  "test-key",
		GeneratorModel:   "test-model",
		GeneratorTimeout: 5 * time.Second,
		GeneratorRetries: retries,
	}
	return NewClient(cfg, zerolog.Nop())
}

func chatResponseWith(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestGenerateFiltersInvalidCandidates(t *testing.T) {
	// Three candidates, one with an out-of-range index. Asking for two must
	// succeed with exactly the two valid ones.
	content := `{"questions":[
		{"question":"Q1","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e1"},
		{"question":"Q2","options":["a","b","c","d"],"correctAnswer":7,"explanation":"bad"},
		{"question":"Q3","options":["a","b","c","d"],"correctAnswer":3,"explanation":"e3"}
	]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q", got)
		}
		w.Write(chatResponseWith(t, content))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL, 1).Generate(context.Background(), "SIE", 2)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].QuestionText != "Q1" || got[1].QuestionText != "Q3" {
		t.Errorf("wrong candidates kept: %q, %q", got[0].QuestionText, got[1].QuestionText)
	}
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	content := `{"questions":[{"question":"Q1","options":["a","b","c","d"],"correctAnswer":0,"explanation":""}]}`

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(chatResponseWith(t, content))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL, 3).Generate(context.Background(), "SIE", 1)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if calls != 2 {
		t.Errorf("upstream called %d times, want 2", calls)
	}
}

func TestGenerateUnavailableAfterAllAttempts(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Generate(context.Background(), "SIE", 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Generate() error = %v, want ErrUnavailable", err)
	}
	if calls != 3 {
		t.Errorf("upstream called %d times, want 3", calls)
	}
}

func TestGenerateRejectsNonJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponseWith(t, "Sorry, I cannot help with that."))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 1).Generate(context.Background(), "SIE", 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Generate() error = %v, want ErrUnavailable", err)
	}
}

func TestBuildPromptMentionsCountAndCertification(t *testing.T) {
	p := buildPrompt("Series 7", 10)
	for _, want := range []string{"Series 7", "exactly 10"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
