package annotate

import (
	"strings"
	"testing"

	"github.com/badiary/sat-law-sub000/pkg/config"
	"github.com/badiary/sat-law-sub000/pkg/dom"
	"github.com/badiary/sat-law-sub000/pkg/extract"
	"github.com/badiary/sat-law-sub000/pkg/testutil"
)

const statute = `<!DOCTYPE html>
<html><head><title>会社法（抄）</title></head><body>
<div class="LawTitle">会社法</div>
<div class="Article"><span class="ArticleCaption">（定義）</span><span class="ArticleTitle">第一条</span>
<div class="Paragraph"><span class="ParagraphNum"></span><div class="ParagraphSentence"><span class="Sentence">この法律において「会社」とは、株式会社（外国法人を除く。）をいう。</span></div></div>
</div>
<div class="Article"><span class="ArticleTitle">第二条</span>
<div class="Paragraph"><span class="ParagraphNum"></span><div class="ParagraphSentence"><span class="Sentence">会社は、第一条及び前条の規定により設立する。</span></div></div>
</div>
</body></html>`

const commentary = `第二条（設立）
本条は、第一条の定義を前提とする。
`

func TestAnnotateHTML(t *testing.T) {
	a := New(config.Default(), testutil.NewTestLogger(t))
	res, err := a.AnnotateHTML(strings.NewReader(statute), strings.NewReader(commentary))
	if err != nil {
		t.Fatalf("AnnotateHTML failed: %v", err)
	}

	if res.Title != "会社法" {
		t.Errorf("Expected title 会社法, got %q", res.Title)
	}
	if len(res.Articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(res.Articles))
	}
	if len(res.References) != 2 {
		t.Fatalf("Expected 2 references in the statute body, got %d", len(res.References))
	}
	for _, ref := range res.References {
		if ref.Token != "1" || ref.SourceArticle != "2" {
			t.Errorf("Expected reference to article 1 from article 2, got %+v", ref)
		}
	}
	if len(res.Definitions) != 1 || res.Definitions[0].Word != "会社" {
		t.Fatalf("Expected 会社 to be defined, got %+v", res.Definitions)
	}
	if len(res.Commentary) != 1 || res.Commentary[0].Token != "2" {
		t.Errorf("Expected one commentary block for article 2, got %+v", res.Commentary)
	}

	for _, want := range []string{
		`class="Article" data-article-num="1" id="article1"`,
		`<span class="bracket-kagi">「`,
		`<span class="bracket-fwparen bracket-fwparen-0">（外国法人を除く。）</span>`,
		`<span class="ref" data-ref-article="1"><a href="#article1">第一条</a></span>`,
		`<span class="ref" data-ref-article="1"><span class="para-ref">前条</span></span>`,
		`<span class="conjunction">及び</span>`,
		`<details class="chikujo"><summary>逐条解説</summary>`,
		`<span class="term" data-term="会社" data-tooltip="第一条">会社`,
	} {
		if !strings.Contains(res.Markup, want) {
			t.Errorf("Expected markup to contain %s\ngot %s", want, res.Markup)
		}
	}
}

func TestRun_CommentaryGetsOwnPassState(t *testing.T) {
	root, err := dom.ParseHTML(strings.NewReader(statute))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	blocks, err := extract.ParseCommentary(strings.NewReader("第一条\n同条の解説。\n"))
	if err != nil {
		t.Fatalf("ParseCommentary failed: %v", err)
	}

	res, err := New(config.Default(), testutil.NewTestLogger(t)).Run(root, blocks)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Commentary) != 1 {
		t.Fatalf("Expected one commentary block, got %d", len(res.Commentary))
	}
	// The statute body ends with a reference to article 1; 同条 in the
	// commentary must not pick it up.
	if !strings.Contains(res.Markup, `<p>同条の解説。</p>`) {
		t.Errorf("Expected 同条 in commentary to stay unresolved, got %s", res.Markup)
	}
}

func TestAnnotateHTML_WithoutCommentary(t *testing.T) {
	res, err := New(config.Default(), nil).AnnotateHTML(strings.NewReader(statute), nil)
	if err != nil {
		t.Fatalf("AnnotateHTML failed: %v", err)
	}
	if res.Commentary != nil {
		t.Errorf("Expected no commentary, got %+v", res.Commentary)
	}
	if strings.Contains(res.Markup, "chikujo") {
		t.Error("Expected no commentary markup")
	}
	if !strings.Contains(res.Markup, `<title>会社法（抄）</title>`) {
		t.Error("Expected the head to be left alone")
	}
}

func TestRun_DisabledPasses(t *testing.T) {
	opts := config.Default()
	opts.Passes.Definitions = false
	opts.Passes.Links = false
	opts.Passes.Style = false
	opts.LinkPrefix = "law.html#a"

	res, err := New(opts, testutil.NewTestLogger(t)).AnnotateHTML(strings.NewReader(statute), nil)
	if err != nil {
		t.Fatalf("AnnotateHTML failed: %v", err)
	}
	if len(res.Definitions) != 0 {
		t.Errorf("Expected no definitions, got %d", len(res.Definitions))
	}
	for _, unwanted := range []string{`class="term"`, `<a href`, `class="conjunction"`} {
		if strings.Contains(res.Markup, unwanted) {
			t.Errorf("Expected markup without %s", unwanted)
		}
	}
	if !strings.Contains(res.Markup, `class="ref"`) {
		t.Error("Expected cross references to remain enabled")
	}
}
