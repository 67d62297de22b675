package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/badiary/sat-law-sub000/pkg/dom"
	"github.com/badiary/sat-law-sub000/pkg/testutil"
)

func TestReferenceResolver_RelativeReferences(t *testing.T) {
	root, _, state := prepareWithReferences(t,
		articleHTML("第四条", "四条本文")+
			articleHTML("第五条", "第五条に定める場合", "前条の規定を準用する", "次条の場合も同様とする")+
			articleHTML("第六条", "六条本文"))

	if got, want := tokens(state.References), []string{"5", "4", "6"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected tokens %v, got %v", want, got)
	}
	kinds := []ReferenceKind{ReferenceAbsolute, ReferencePrevious, ReferenceNext}
	for i, ref := range state.References {
		if ref.Kind != kinds[i] {
			t.Errorf("Reference %d: expected kind %s, got %s", i, kinds[i], ref.Kind)
		}
		if ref.SourceArticle != "5" {
			t.Errorf("Reference %d: expected source article 5, got %q", i, ref.SourceArticle)
		}
	}
	if state.LastToken != "6" {
		t.Errorf("Expected last token 6, got %q", state.LastToken)
	}

	var spans []string
	dom.Visit(root, func(n *dom.Node) bool {
		if n.HasClass(ClassReference) {
			v, _ := n.Attr(AttrRefArticle)
			spans = append(spans, n.TextContent()+"="+v)
		}
		return true
	})
	if want := []string{"第五条=5", "前条=4", "次条=6"}; !reflect.DeepEqual(spans, want) {
		t.Errorf("Expected spans %v, got %v", want, spans)
	}
}

func TestReferenceResolver_SameArticleAcrossNodes(t *testing.T) {
	_, _, state := prepareWithReferences(t,
		articleHTML("第一条", "第十条第二項の規定", "同条第三項第一号の規定"))

	if len(state.References) != 2 {
		t.Fatalf("Expected 2 references, got %d", len(state.References))
	}
	first, second := state.References[0], state.References[1]
	if first.Token != "10" || first.Paragraph != 2 {
		t.Errorf("Expected 10 paragraph 2, got %+v", first)
	}
	if second.Token != "10" || second.Kind != ReferenceSame || second.Paragraph != 3 || second.Item != 1 {
		t.Errorf("Expected same-article 10 paragraph 3 item 1, got %+v", second)
	}
}

func TestReferenceResolver_Ranges(t *testing.T) {
	root, _, state := prepareWithReferences(t,
		articleHTML("第一条", "第五条の二から第七条までの規定", "同条の規定"))

	if got, want := tokens(state.References), []string{"5-2,7", "7"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected tokens %v, got %v", want, got)
	}
	if !state.References[0].IsRange {
		t.Error("Expected first reference to be a range")
	}
	span := root.FirstClass(ClassReference)
	if span == nil || span.TextContent() != "第五条の二から第七条まで" {
		t.Errorf("Expected the whole range to be wrapped, got %v", span)
	}
}

func TestReferenceResolver_Unresolvable(t *testing.T) {
	root, _, state := prepareWithReferences(t,
		`<div class="Preamble">前条の規定及び同条</div>`+
			articleHTML("第一条", "前条の規定"))

	if len(state.References) != 0 {
		t.Fatalf("Expected no references, got %v", tokens(state.References))
	}
	if root.FindClass(ClassReference) != nil {
		t.Error("Expected unresolved relative references to stay plain text")
	}
}

func TestReferenceResolver_SkipsArticleTitles(t *testing.T) {
	_, _, state := prepareWithReferences(t, articleHTML("第三条", "本文"))
	if len(state.References) != 0 {
		t.Errorf("Expected title not to be a reference, got %v", tokens(state.References))
	}
}

func TestReferenceResolver_ThreadsState(t *testing.T) {
	root, index := prepare(t, articleHTML("第一条", "同条の規定"))
	resolver := NewReferenceResolver(index, testutil.NewTestLogger(t))

	state, err := resolver.Resolve(root, ResolveState{LastToken: "9"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := tokens(state.References); !reflect.DeepEqual(got, []string{"9"}) {
		t.Errorf("Expected incoming state to resolve 同条 to 9, got %v", got)
	}
}

func TestArticleLinker(t *testing.T) {
	root, _, _ := prepareWithReferences(t,
		articleHTML("第一条", "第二条の三及び第四条の規定"))

	if err := NewArticleLinker("law.html#a").Link(root); err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	out, err := dom.RenderString(root)
	if err != nil {
		t.Fatalf("RenderString failed: %v", err)
	}
	for _, want := range []string{
		`<a href="law.html#a2-3">第二条の三</a>`,
		`<a href="law.html#a4">第四条</a>`,
		`<span class="ArticleTitle">第一条</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %s, got %s", want, out)
		}
	}

	// A second pass must not nest anchors.
	if err := NewArticleLinker("law.html#a").Link(root); err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	again, _ := dom.RenderString(root)
	if again != out {
		t.Errorf("Expected linking to be idempotent, got %s", again)
	}
}
