package bracket

import (
	"strings"
	"testing"

	"github.com/badiary/sat-law-sub000/pkg/dom"
)

func fwparenDepths(root *dom.Node) []string {
	var out []string
	for _, el := range root.FindClass(FullWidthParen.Class()) {
		for _, c := range el.Classes {
			if strings.HasPrefix(c, FullWidthParen.Class()+"-") {
				out = append(out, c)
			}
		}
	}
	return out
}

func TestAnnotate_NestedFullWidthParenDepth(t *testing.T) {
	text := "甲（一（二（三（四（五（六）五）四）三）二）一）乙"
	root := dom.Elem("div", "", dom.Text(text))

	if err := Annotate(root); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	got := fwparenDepths(root)
	want := []string{
		"bracket-fwparen-0",
		"bracket-fwparen-1",
		"bracket-fwparen-2",
		"bracket-fwparen-3",
		"bracket-fwparen-4",
		"bracket-fwparen-4",
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Expected depth classes %v, got %v", want, got)
	}
	if root.TextContent() != text {
		t.Errorf("Expected text preserved, got %q", root.TextContent())
	}
}

func TestAnnotate_CornerBracketHasNoDepth(t *testing.T) {
	root := dom.Elem("div", "", dom.Text("（（「x」））「y」"))
	if err := Annotate(root); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	corners := root.FindClass(Corner.Class())
	if len(corners) != 2 {
		t.Fatalf("Expected 2 corner spans, got %d", len(corners))
	}
	for _, c := range corners {
		if len(c.Classes) != 1 {
			t.Errorf("Expected only %s on corner span, got %v", Corner.Class(), c.Classes)
		}
	}
	if got := Interior(corners[0]); got != "x" {
		t.Errorf("Expected interior x, got %q", got)
	}
}

func TestAnnotate_DepthCountsOnlyFullWidthParens(t *testing.T) {
	root := dom.Elem("div", "", dom.Text("（「（a）」）"))
	if err := Annotate(root); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	got := fwparenDepths(root)
	want := []string{"bracket-fwparen-0", "bracket-fwparen-1"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestAnnotate_AllKinds(t *testing.T) {
	text := "(a)（b）「c」【d】[e]［f］〈g〉〔h〕"
	root := dom.Elem("div", "", dom.Text(text))
	if err := Annotate(root); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	for k := Paren; k <= Tortoise; k++ {
		spans := root.FindClass(k.Class())
		if len(spans) != 1 {
			t.Errorf("Expected one %s span, got %d", k.Class(), len(spans))
		}
	}
	if root.TextContent() != text {
		t.Errorf("Expected text preserved, got %q", root.TextContent())
	}
}

func TestAnnotateText_Unbalanced(t *testing.T) {
	if got := AnnotateText("括弧なし"); got != nil {
		t.Errorf("Expected nil for text without brackets, got %v", got)
	}
	if got := AnnotateText("閉じない（括弧"); got != nil {
		t.Errorf("Expected nil for unmatched opener, got %v", got)
	}

	frag := AnnotateText("（a（b）")
	if len(frag) != 2 {
		t.Fatalf("Expected text plus one span, got %d nodes", len(frag))
	}
	if frag[0].Data != "（a" {
		t.Errorf("Expected leading unmatched text, got %q", frag[0].Data)
	}
	if !frag[1].HasClass(DepthClass(0)) {
		t.Errorf("Expected inner pair at depth 0, got %v", frag[1].Classes)
	}
}

func TestAnnotate_Render(t *testing.T) {
	root := dom.Elem("p", "", dom.Text("「会社」（株式会社をいう。）"))
	if err := Annotate(root); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	got, err := dom.RenderString(root)
	if err != nil {
		t.Fatalf("RenderString failed: %v", err)
	}
	want := `<p><span class="bracket-kagi">「会社」</span>` +
		`<span class="bracket-fwparen bracket-fwparen-0">（株式会社をいう。）</span></p>`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
