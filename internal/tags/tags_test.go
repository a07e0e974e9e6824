package tags

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type fakeCompleter struct {
	reply  string
	err    error
	calls  int
	key    string
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	f.calls++
	f.key = apiKey
	f.prompt = prompt
	return f.reply, f.err
}

func TestGenerator_Generate(t *testing.T) {
	backend := &fakeCompleter{reply: " കേരളം, യാത്ര ,, ഭക്ഷണം\n"}
	g := NewGenerator(backend, "")

	got, err := g.Generate(context.Background(), "  ഒരു ട്രാൻസ്ക്രിപ്റ്റ്  ", " key-1 ", 5)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []string{"കേരളം", "യാത്ര", "ഭക്ഷണം"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	if backend.key != "key-1" {
		t.Errorf("api key not passed through trimmed: %q", backend.key)
	}
	if !strings.Contains(backend.prompt, "maximum of 5 relevant tags") ||
		!strings.Contains(backend.prompt, "Malayalam video transcript") ||
		!strings.HasSuffix(backend.prompt, "Transcript:\nഒരു ട്രാൻസ്ക്രിപ്റ്റ്\nTags:") {
		t.Errorf("unexpected prompt: %q", backend.prompt)
	}
}

func TestGenerator_Generate_default_max(t *testing.T) {
	backend := &fakeCompleter{reply: "a,b,c,d,e,f,g,h,i,j,k,l"}
	g := NewGenerator(backend, "Tamil")

	got, err := g.Generate(context.Background(), "text", "key", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != DefaultMaxTags {
		t.Errorf("expected %d tags, got %d", DefaultMaxTags, len(got))
	}
	if !strings.Contains(backend.prompt, "maximum of 10 relevant tags for this Tamil video") {
		t.Errorf("unexpected prompt: %q", backend.prompt)
	}
}

func TestGenerator_Generate_validation(t *testing.T) {
	backend := &fakeCompleter{reply: "a"}
	g := NewGenerator(backend, "")

	t.Run("missing_key", func(t *testing.T) {
		_, err := g.Generate(context.Background(), "text", "   ", 3)
		if !errors.Is(err, ErrMissingCredential) {
			t.Errorf("expected ErrMissingCredential, got %v", err)
		}
	})

	t.Run("empty_transcript", func(t *testing.T) {
		_, err := g.Generate(context.Background(), " \n ", "key", 3)
		if !errors.Is(err, ErrEmptyTranscript) {
			t.Errorf("expected ErrEmptyTranscript, got %v", err)
		}
	})

	if backend.calls != 0 {
		t.Errorf("backend must not be called on invalid input, got %d calls", backend.calls)
	}
}

func TestGenerator_Generate_backend_failure(t *testing.T) {
	cause := errors.New("quota exceeded")
	backend := &fakeCompleter{err: cause}
	g := NewGenerator(backend, "")

	_, err := g.Generate(context.Background(), "text", "key", 3)
	if !errors.Is(err, ErrGeneration) || !errors.Is(err, cause) {
		t.Errorf("expected ErrGeneration wrapping cause, got %v", err)
	}
	if backend.calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", backend.calls)
	}

	backend.err = nil
	backend.reply = " , ,"
	if _, err := g.Generate(context.Background(), "text", "key", 3); !errors.Is(err, ErrGeneration) {
		t.Errorf("empty reply: expected ErrGeneration, got %v", err)
	}
}

func TestParseTags(t *testing.T) {
	t.Run("trims_and_drops_empty", func(t *testing.T) {
		got := ParseTags(" a , b,, ,c ", 10)
		if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("caps_at_max", func(t *testing.T) {
		got := ParseTags("a,b,c,d", 2)
		if !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("dedupes_case_insensitive", func(t *testing.T) {
		got := ParseTags("Kerala, kerala, KERALA, Food", 10)
		if !reflect.DeepEqual(got, []string{"Kerala", "Food"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("strips_code_fences", func(t *testing.T) {
		got := ParseTags("```\nonam, sadya\n```", 10)
		if !reflect.DeepEqual(got, []string{"onam", "sadya"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := ParseTags("", 10); len(got) != 0 {
			t.Errorf("expected no tags, got %q", got)
		}
	})
}

func TestNewCompleter(t *testing.T) {
	c, err := NewCompleter("", BackendOptions{Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if g, ok := c.(*GeminiCompleter); !ok || g.Model != "m" {
		t.Errorf("default backend: got %T %+v", c, c)
	}

	c, err = NewCompleter("OpenAI", BackendOptions{BaseURL: "http://x/"})
	if err != nil {
		t.Fatal(err)
	}
	if o, ok := c.(*OpenAICompleter); !ok || o.BaseURL != "http://x/" {
		t.Errorf("openai backend: got %T %+v", c, c)
	}

	if _, err := NewCompleter("claude", BackendOptions{}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
