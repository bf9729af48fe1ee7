package tagging

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestSuggestUrgentOnce(t *testing.T) {
	s := NewSuggester(nil)
	got := slices.Collect(s.Suggest("Tolong, ini URGENT mendesak sekali", nil))
	count := 0
	for _, tag := range got {
		if tag == "Urgent" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected Urgent exactly once, got %v", got)
	}
}

func TestSuggestSkipsCurrentTags(t *testing.T) {
	s := NewSuggester(nil)
	got := slices.Collect(s.Suggest("saya belum punya nib", []string{"NIB"}))
	if slices.Contains(got, "NIB") {
		t.Fatalf("NIB must not be re-suggested: %v", got)
	}
	got = slices.Collect(s.Suggest("saya belum punya nib", []string{"nib"}))
	if slices.Contains(got, "NIB") {
		t.Fatalf("current tags compare case-insensitively: %v", got)
	}
}

func TestSuggestIsDeterministic(t *testing.T) {
	s := NewSuggester(nil)
	text := "Pembayaran gagal, login error, mohon follow up segera"
	first := slices.Collect(s.Suggest(text, nil))
	second := slices.Collect(s.Suggest(text, nil))
	if !slices.Equal(first, second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	want := []string{"Urgent", "Pembayaran", "Technical Issue", "Account", "Follow Up"}
	if !slices.Equal(first, want) {
		t.Fatalf("expected %v, got %v", want, first)
	}
}

func TestSuggestNoMatch(t *testing.T) {
	s := NewSuggester(nil)
	if got := slices.Collect(s.Suggest("halo, terima kasih", nil)); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}

func TestSuggestStopsEarly(t *testing.T) {
	s := NewSuggester(nil)
	var got []string
	for tag := range s.Suggest("urgent nib izin", nil) {
		got = append(got, tag)
		break
	}
	if len(got) != 1 || got[0] != "Urgent" {
		t.Fatalf("unexpected early-stop result %v", got)
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "- tag: Refund\n  keywords: [Refund, 'uang kembali']\n- tag: ''\n  keywords: [ignored]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	s := NewSuggester(rules)
	got := slices.Collect(s.Suggest("minta uang kembali", nil))
	if !slices.Equal(got, []string{"Refund"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
	if got := slices.Collect(s.Suggest("REFUND please", nil)); !slices.Equal(got, []string{"Refund"}) {
		t.Fatalf("keywords should be lower-cased, got %v", got)
	}
}

func TestDebouncerDeliversLastText(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	done := make(chan struct{}, 1)
	d := NewDebouncer(30*time.Millisecond, func(text string) {
		mu.Lock()
		calls = append(calls, text)
		mu.Unlock()
		done <- struct{}{}
	})
	d.Trigger("u")
	d.Trigger("ur")
	d.Trigger("urgent")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != "urgent" {
		t.Fatalf("expected single call with last text, got %v", calls)
	}
}

func TestDebouncerStop(t *testing.T) {
	fired := make(chan struct{}, 1)
	d := NewDebouncer(20*time.Millisecond, func(string) { fired <- struct{}{} })
	d.Trigger("x")
	d.Stop()
	select {
	case <-fired:
		t.Fatal("stopped debouncer must not fire")
	case <-time.After(80 * time.Millisecond):
	}
}
