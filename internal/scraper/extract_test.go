package scraper

import "testing"

const menuFixture = `
<html><body>
<div class="category">
  <div class="cat_name"><h2>Zupy</h2></div>
  <div class="pos">
    <ul>
      <li>Żurek z jajkiem   400ml
          5,50</li>
      <li>Rosół z makaronem 400ml 5,00</li>
    </ul>
  </div>
</div>
<div class="category">
  <div class="cat_name"><h2>Dania mięsne</h2></div>
  <div class="pos">
    <ul>
      <li>Kotlet schabowy 120g 14,00</li>
      <li>   </li>
    </ul>
  </div>
</div>
<div class="category">
  <div class="cat_name"><h2>Ogłoszenia</h2></div>
  <div class="pos"><ul></ul></div>
</div>
</body></html>`

func TestExtractItems_SectionsAndOrder(t *testing.T) {
	items, err := ExtractItems(menuFixture)
	if err != nil {
		t.Fatalf("ExtractItems: %v", err)
	}
	want := []RawItem{
		{CategoryLabel: "Zupy", Text: "Żurek z jajkiem 400ml 5,50"},
		{CategoryLabel: "Zupy", Text: "Rosół z makaronem 400ml 5,00"},
		{CategoryLabel: "Dania mięsne", Text: "Kotlet schabowy 120g 14,00"},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %+v", len(items), len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestExtractItems_EmptyDocument(t *testing.T) {
	items, err := ExtractItems("<html><body><p>maintenance</p></body></html>")
	if err != nil {
		t.Fatalf("ExtractItems: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := collapseWhitespace("  a \n\t b  "); got != "a b" {
		t.Fatalf("collapseWhitespace = %q", got)
	}
	if got := collapseWhitespace(" \n "); got != "" {
		t.Fatalf("collapseWhitespace blank = %q", got)
	}
}
