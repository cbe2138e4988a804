package filter

import (
	"testing"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

type itemSpec struct {
	brand, name string
	size        any
	cpu, ram    string
	price       any
	features    map[string]any
	ports       map[string]any
}

func makeItem(s itemSpec) catalog.Item {
	raw := catalog.Raw{
		catalog.CategoryDetails: {"Brand": s.brand, "Name": s.name},
		catalog.CategorySpecs:   {"Processor": s.cpu, "RAM": s.ram},
	}
	if s.size != nil {
		raw[catalog.CategoryScreen] = map[string]any{"Size": s.size}
	}
	if s.price != nil {
		raw[catalog.CategoryPrices] = map[string]any{"Shop": s.price}
	}
	if s.features != nil {
		raw[catalog.CategoryFeatures] = s.features
	}
	if s.ports != nil {
		raw[catalog.CategoryPorts] = s.ports
	}
	return catalog.FromRaw(raw)
}

func testCatalog() []catalog.Item {
	return []catalog.Item{
		makeItem(itemSpec{brand: "Dell", name: "XPS 13", size: 13.4, cpu: "Intel Core i7-1360P", ram: "16GB", price: 1199.0,
			features: map[string]any{"Backlit Keyboard": true}, ports: map[string]any{"USB-C": 2}}),
		makeItem(itemSpec{brand: "HP", name: "Victus 15", size: "15.6 inches", cpu: "Intel Core i9-13900H", ram: "32GB", price: "£749.00",
			features: map[string]any{"Backlit Keyboard": "Yes"}, ports: map[string]any{"HDMI": true, "USB-C": 1}}),
		makeItem(itemSpec{brand: "Acer", name: "Aspire 3", size: 15.6, cpu: "Intel Core i3-1215U", ram: "8GB", price: 399.0,
			features: map[string]any{"Backlit Keyboard": false}, ports: map[string]any{"HDMI": true}}),
		makeItem(itemSpec{brand: "Lenovo", name: "Legion 5", size: 16, cpu: "AMD Ryzen 9 7945HX", ram: "32GB"}),
		makeItem(itemSpec{brand: "Apple", name: "MacBook Air", size: 13.6, cpu: "Apple M2", ram: "8GB", price: 999.0}),
	}
}

func names(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name()
	}
	return out
}

func assertNames(t *testing.T, got []catalog.Item, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestApply_EmptyCatalog(t *testing.T) {
	p := New(0, nil)
	for _, prefs := range []preference.Set{
		{},
		{Budget: preference.Under(500)},
		{Brands: []string{"dell"}, Performance: preference.TierHigh},
	} {
		if got := p.Apply(nil, prefs, []string{"hp"}); len(got) != 0 {
			t.Errorf("empty catalog returned %v", names(got))
		}
	}
}

func TestApply_NoFiltersKeepsCatalog(t *testing.T) {
	items := testCatalog()
	got := New(0, nil).Apply(items, preference.Set{}, nil)
	assertNames(t, got, "XPS 13", "Victus 15", "Aspire 3", "Legion 5", "MacBook Air")

	got = New(0, nil).Apply(items, preference.Set{}, []string{"HP", "apple"})
	assertNames(t, got, "XPS 13", "Aspire 3", "Legion 5")
}

func TestApply_Stages(t *testing.T) {
	tests := []struct {
		name     string
		prefs    preference.Set
		excluded []string
		want     []string
	}{
		{"size window", preference.Set{Sizes: []preference.Size{preference.Exact(13), preference.Exact(14)}}, nil,
			[]string{"XPS 13", "MacBook Air"}},
		{"size range", preference.Set{Sizes: []preference.Size{preference.Range(15, 16)}}, nil,
			[]string{"Victus 15", "Aspire 3", "Legion 5"}},
		{"brand", preference.Set{Brands: []string{"dell", "acer"}}, nil,
			[]string{"XPS 13", "Aspire 3"}},
		{"exclusion beats inclusion", preference.Set{Brands: []string{"dell", "acer"}}, []string{"dell"},
			[]string{"Aspire 3"}},
		{"budget under", preference.Set{Budget: preference.Under(800)}, nil,
			[]string{"Victus 15", "Aspire 3"}},
		{"budget between inclusive", preference.Set{Budget: preference.Between(749, 999)}, nil,
			[]string{"Victus 15", "MacBook Air"}},
		{"feature", preference.Set{Features: []string{"backlit_keyboard"}}, nil,
			[]string{"XPS 13", "Victus 15"}},
		{"ports", preference.Set{Ports: []string{"hdmi", "usb_c"}}, nil,
			[]string{"Victus 15"}},
		{"performance high", preference.Set{Performance: preference.TierHigh}, nil,
			[]string{"Victus 15", "Legion 5"}},
		{"performance basic", preference.Set{Performance: preference.TierBasic}, nil,
			[]string{"Aspire 3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(0, nil).Apply(testCatalog(), tt.prefs, tt.excluded)
			assertNames(t, got, tt.want...)
		})
	}
}

func TestApply_BudgetFallsBackToUnpriced(t *testing.T) {
	got := New(0, nil).Apply(testCatalog(), preference.Set{Budget: preference.Under(100)}, nil)
	assertNames(t, got, "Legion 5")
}

func TestApply_PerformanceIsAdvisory(t *testing.T) {
	prefs := preference.Set{Brands: []string{"acer"}, Performance: preference.TierHigh}
	got := New(0, nil).Apply(testCatalog(), prefs, nil)
	assertNames(t, got, "Aspire 3")
}

func TestApply_AbsoluteFallback(t *testing.T) {
	items := testCatalog()
	prefs := preference.Set{Brands: []string{"razer"}}

	got := New(2, nil).Apply(items, prefs, []string{"dell"})
	assertNames(t, got, "Victus 15", "Aspire 3")

}

func TestApply_ExcludedBrandsNeverReturn(t *testing.T) {
	hpOnly := []catalog.Item{
		makeItem(itemSpec{brand: "HP", name: "Victus 15", size: 15.6, price: 749.0}),
		makeItem(itemSpec{brand: "HP", name: "Pavilion 14", size: 14, price: 599.0}),
	}
	if got := New(0, nil).Apply(hpOnly, preference.Set{}, []string{"hp"}); len(got) != 0 {
		t.Errorf("excluded brand returned: %v", names(got))
	}

	everything := []string{"dell", "HP", "acer", "lenovo", "apple"}
	if got := New(3, nil).Apply(testCatalog(), preference.Set{Brands: []string{"razer"}}, everything); len(got) != 0 {
		t.Errorf("excluded brands returned: %v", names(got))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := testCatalog()
	_ = New(0, nil).Apply(items, preference.Set{Budget: preference.Under(800)}, []string{"dell"})
	assertNames(t, items, "XPS 13", "Victus 15", "Aspire 3", "Legion 5", "MacBook Air")
}

func TestClassify(t *testing.T) {
	items := testCatalog()
	want := []preference.Tier{
		preference.TierMedium, // i7, 16GB
		preference.TierHigh,   // i9
		preference.TierBasic,  // i3
		preference.TierHigh,   // Ryzen 9
		preference.TierMedium, // M2
	}
	for i, it := range items {
		if got := Classify(it); got != want[i] {
			t.Errorf("Classify(%s) = %q, want %q", it.Name(), got, want[i])
		}
	}
	if got := Classify(makeItem(itemSpec{brand: "Chuwi", name: "HeroBook"})); got != preference.TierBasic {
		t.Errorf("unknown hardware = %q, want basic", got)
	}
}
