package pipeline

import (
	"reflect"
	"strings"
	"testing"
)

func collect(t *testing.T, tokens []string) ([]string, string) {
	t.Helper()
	var seg Segmenter
	var units []string
	for _, token := range tokens {
		units = append(units, seg.Add(token)...)
	}
	return units, seg.Flush()
}

func TestSegmenterSplitsAtTerminators(t *testing.T) {
	units, rest := collect(t, []string{"こんに", "ちは。", "元気", "です", "か？", "ありがとう"})

	want := []string{"こんにちは。", "元気ですか？"}
	if !reflect.DeepEqual(units, want) {
		t.Fatalf("expected units %v, got %v", want, units)
	}
	if rest != "ありがとう" {
		t.Fatalf("expected trailing unit %q, got %q", "ありがとう", rest)
	}
}

func TestSegmenterMultipleBoundariesInOneToken(t *testing.T) {
	units, rest := collect(t, []string{"はい。そうです！では？続き"})

	want := []string{"はい。", "そうです！", "では？"}
	if !reflect.DeepEqual(units, want) {
		t.Fatalf("expected units %v, got %v", want, units)
	}
	if rest != "続き" {
		t.Fatalf("expected remainder %q, got %q", "続き", rest)
	}
}

func TestSegmenterLineBreakIsBoundary(t *testing.T) {
	units, rest := collect(t, []string{"一つ目\n二つ", "目\n"})

	want := []string{"一つ目", "二つ目"}
	if !reflect.DeepEqual(units, want) {
		t.Fatalf("expected units %v, got %v", want, units)
	}
	if rest != "" {
		t.Fatalf("expected empty remainder, got %q", rest)
	}
}

func TestSegmenterReconstructsOriginal(t *testing.T) {
	tokens := []string{"今日は", "いい天気", "ですね。", "散歩に", "行きましょう！", "楽しみ"}
	units, rest := collect(t, tokens)

	joined := strings.Join(units, "") + rest
	if joined != strings.Join(tokens, "") {
		t.Fatalf("concatenated units %q differ from input %q", joined, strings.Join(tokens, ""))
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units for 2 terminators, got %d", len(units))
	}
}

func TestSegmenterWhitespaceOnlyRemainder(t *testing.T) {
	var seg Segmenter
	if units := seg.Add("了解です。  "); len(units) != 1 || units[0] != "了解です。" {
		t.Fatalf("unexpected units %v", units)
	}
	if rest := seg.Flush(); rest != "" {
		t.Fatalf("expected blank remainder discarded, got %q", rest)
	}
}

func TestSegmenterEmptyStream(t *testing.T) {
	var seg Segmenter
	if units := seg.Add(""); units != nil {
		t.Fatalf("expected no units for empty token, got %v", units)
	}
	if rest := seg.Flush(); rest != "" {
		t.Fatalf("expected empty flush, got %q", rest)
	}
}
