package sentitag

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
)

func TestClassifyNoMatchIsNeutral(t *testing.T) {
	c := New(nil)

	inputs := []string{
		"The quick brown fox jumps over the lazy dog",
		"Please send the quarterly report by Monday",
		"The meeting is at noon in room four",
	}
	for _, in := range inputs {
		res := c.Classify(in)
		if !res.IsNeutral() {
			t.Errorf("Classify(%q) = %v, want neutral", in, res)
		}
		if !res.Analyzed() {
			t.Errorf("Classify(%q) should be analyzed", in)
		}
		if res.Categories() != nil {
			t.Errorf("neutral result should have nil categories, got %v", res.Categories())
		}
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	c := New(nil)
	for _, in := range []string{"", "   ", "\n\t"} {
		if res := c.Classify(in); !res.IsNeutral() {
			t.Errorf("Classify(%q) = %v, want neutral", in, res)
		}
	}
}

func TestClassifyEveryDefaultPhrase(t *testing.T) {
	c := New(nil)
	lex := lexicon.Default()

	for _, e := range lex.Entries() {
		for _, p := range e.Phrases {
			text := " " + p + " "
			if res := c.Classify(text); !res.Has(e.Category) {
				t.Errorf("Classify(%q) = %v, want it to contain %s", text, res, e.Category)
			}
		}
	}
}

func TestClassifyWholeWordOnly(t *testing.T) {
	c := New(nil)

	if res := c.Classify("sadly"); res.Has(lexicon.Sad) {
		t.Errorf("Classify('sadly') = %v, must not contain sad", res)
	}
	if res := c.Classify("I'm sad."); !res.Has(lexicon.Sad) {
		t.Errorf("Classify(\"I'm sad.\") = %v, want sad", res)
	}
}

func TestClassifyMultiWordPhrase(t *testing.T) {
	c := New(nil)

	res := c.Classify("I'm on cloud nine today")
	if want := []lexicon.Category{lexicon.Happy}; !reflect.DeepEqual(res.Categories(), want) {
		t.Errorf("Classify(on cloud nine) = %v, want %v", res.Categories(), want)
	}

	if res := c.Classify("cloud nine"); res.Has(lexicon.Happy) {
		t.Errorf("Classify('cloud nine') = %v, must not contain happy", res)
	}
	if res := c.Classify("ON   Cloud\nNINE"); !res.Has(lexicon.Happy) {
		t.Errorf("whitespace runs inside phrase should still match, got %v", res)
	}
}

func TestClassifyIndicVowelSignIsNotBoundary(t *testing.T) {
	c := New(lexicon.New())
	if err := c.AddCategory("khush", []string{"खुश"}); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	// "खुशी" ends in U+0940, a spacing vowel sign, so "खुश" is only a prefix.
	if res := c.Classify("मुझे बहुत खुशी है"); !res.IsNeutral() {
		t.Errorf("Classify(khushi) = %v, want neutral", res)
	}
	if res := c.Classify("मैं खुश हूँ"); !res.Has("khush") {
		t.Errorf("Classify(khush) = %v, want khush", res)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := New(nil)

	want := c.Classify("happy")
	for _, in := range []string{"HAPPY", "HaPpY", "Happy"} {
		if got := c.Classify(in); !got.Equal(want) {
			t.Errorf("Classify(%q) = %v, want %v", in, got, want)
		}
	}
	if !want.Has(lexicon.Happy) {
		t.Errorf("Classify('happy') = %v, want happy", want)
	}
}

func TestClassifyMultipleCategoriesInLexiconOrder(t *testing.T) {
	c := New(nil)

	res := c.Classify("He was furious and joyful")
	want := []lexicon.Category{lexicon.Happy, lexicon.Angry}
	if !reflect.DeepEqual(res.Categories(), want) {
		t.Errorf("Categories() = %v, want %v", res.Categories(), want)
	}
	if res.String() != "happy, angry" {
		t.Errorf("String() = %q, want %q", res.String(), "happy, angry")
	}

	res = c.Classify("She felt blue but grateful, and a little tired.")
	want = []lexicon.Category{lexicon.Sad, lexicon.Exhausted, lexicon.Grateful}
	if !reflect.DeepEqual(res.Categories(), want) {
		t.Errorf("Categories() = %v, want %v", res.Categories(), want)
	}
}

func TestClassifyOverlappingPhraseLists(t *testing.T) {
	// "wistful" is listed under both sad and bittersweet.
	c := New(nil)
	res := c.Classify("a wistful look")
	for _, cat := range []lexicon.Category{lexicon.Sad, lexicon.Bittersweet} {
		if !res.Has(cat) {
			t.Errorf("Classify('a wistful look') = %v, want %s", res, cat)
		}
	}
}

func TestAddRemoveCategory(t *testing.T) {
	c := New(nil)

	if err := c.AddCategory("excited2", []string{"yippee"}); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if res := c.Classify("yippee!"); !res.Has("excited2") {
		t.Errorf("Classify('yippee!') = %v, want excited2", res)
	}

	if !c.RemoveCategory("excited2") {
		t.Error("RemoveCategory('excited2') = false, want true")
	}
	if res := c.Classify("yippee!"); res.Has("excited2") {
		t.Errorf("Classify after remove = %v, must not contain excited2", res)
	}
	if c.RemoveCategory("excited2") {
		t.Error("second RemoveCategory should return false")
	}
}

func TestAddCategoryInvalidMapping(t *testing.T) {
	c := New(nil)
	before := c.Categories()

	cases := []struct {
		name    string
		phrases []string
	}{
		{"", []string{"x"}},
		{"x", nil},
		{"x", []string{""}},
		{"neutral", []string{"meh"}},
	}
	for _, tc := range cases {
		err := c.AddCategory(tc.name, tc.phrases)
		if !errors.Is(err, internalerr.ErrInvalidMapping) {
			t.Errorf("AddCategory(%q, %v) error = %v, want ErrInvalidMapping", tc.name, tc.phrases, err)
		}
	}

	if after := c.Categories(); !reflect.DeepEqual(before, after) {
		t.Errorf("categories changed after failed adds: %v -> %v", before, after)
	}
}

func TestAddCategoryLowerCasesName(t *testing.T) {
	c := New(lexicon.New())
	if err := c.AddCategory("Showing", []string{"Look At This"}); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if res := c.Classify("hey, look at this!"); !res.Has("showing") {
		t.Errorf("Classify = %v, want showing", res)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := New(nil)
	text := "Furious, tired, yet strangely on cloud nine."
	first := c.Classify(text)
	second := c.Classify(text)
	if !first.Equal(second) {
		t.Errorf("results differ: %v vs %v", first, second)
	}
}

func TestNewCopiesLexicon(t *testing.T) {
	lex := lexicon.New()
	_ = lex.Add("a", []string{"alpha"})

	c := New(lex)
	lex.Remove("a")

	if res := c.Classify("alpha"); !res.Has("a") {
		t.Errorf("classifier should own its lexicon copy, got %v", res)
	}

	snap := c.Lexicon()
	snap.Remove("a")
	if res := c.Classify("alpha"); !res.Has("a") {
		t.Errorf("Lexicon() snapshot should be independent, got %v", res)
	}
}

func TestEmptyLexiconAlwaysNeutral(t *testing.T) {
	c := New(lexicon.New())
	if res := c.Classify("happy sad angry"); !res.IsNeutral() {
		t.Errorf("empty lexicon Classify = %v, want neutral", res)
	}
}

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

type ptrStringer struct{ s string }

func (p *ptrStringer) String() string { return p.s }

func TestClassifyValue(t *testing.T) {
	c := New(nil)
	happy := "so happy"
	var nilStr *string
	var nilStringer *ptrStringer

	good := []any{"so happy", &happy, []byte("so happy"), stringer{"so happy"}, &ptrStringer{"so happy"}}
	for _, v := range good {
		res, err := c.ClassifyValue(v)
		if err != nil {
			t.Errorf("ClassifyValue(%T) error: %v", v, err)
			continue
		}
		if !res.Has(lexicon.Happy) {
			t.Errorf("ClassifyValue(%T) = %v, want happy", v, res)
		}
	}

	bad := []any{nil, nilStr, []byte(nil), nilStringer, 42, struct{}{}}
	for _, v := range bad {
		res, err := c.ClassifyValue(v)
		if !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("ClassifyValue(%#v) error = %v, want ErrInvalidInput", v, err)
		}
		if res.Analyzed() {
			t.Errorf("ClassifyValue(%#v) should not return an analyzed result on error", v)
		}
	}
}

func TestExplain(t *testing.T) {
	c := New(nil)

	matches := c.Explain("Happy, joyful, and a bit tired")
	want := []Match{
		{Category: lexicon.Happy, Phrases: []string{"happy", "joyful"}},
		{Category: lexicon.Exhausted, Phrases: []string{"tired"}},
	}
	if !reflect.DeepEqual(matches, want) {
		t.Errorf("Explain = %+v, want %+v", matches, want)
	}

	if got := c.Explain("nothing here"); got != nil {
		t.Errorf("Explain(no match) = %v, want nil", got)
	}
}

func TestResultStates(t *testing.T) {
	var zero Result
	if zero.Analyzed() || zero.IsNeutral() {
		t.Error("zero Result must be unanalyzed and not neutral")
	}
	if zero.String() != "" {
		t.Errorf("zero Result String() = %q, want empty", zero.String())
	}

	n := Neutral()
	if !n.Analyzed() || !n.IsNeutral() {
		t.Error("Neutral() must be analyzed and neutral")
	}
	if n.String() != lexicon.NeutralLabel {
		t.Errorf("Neutral().String() = %q", n.String())
	}
	if n.Equal(zero) {
		t.Error("neutral and unanalyzed results must differ")
	}
}

func TestResultJSON(t *testing.T) {
	c := New(nil)

	data, err := json.Marshal(c.Classify("furious and joyful"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"neutral":false,"categories":["happy","angry"]}` {
		t.Errorf("Marshal = %s", data)
	}

	data, err = json.Marshal(c.Classify("plain"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"neutral":true,"categories":[]}` {
		t.Errorf("Marshal neutral = %s", data)
	}

	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.IsNeutral() {
		t.Errorf("decoded neutral result = %v", back)
	}
}

func TestConcurrentClassifyAndMutate(t *testing.T) {
	c := New(nil)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if res := c.Classify("so happy"); !res.Has(lexicon.Happy) {
					t.Errorf("concurrent Classify lost happy: %v", res)
					return
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			_ = c.AddCategory("temp", []string{"temp" + strings.Repeat("x", j%3)})
			c.RemoveCategory("temp")
		}
	}()

	wg.Wait()
}
