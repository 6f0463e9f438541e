package classify

import (
	"testing"

	"gamelxrd/internal/keywords"
	"gamelxrd/internal/media"
)

func TestClassify(t *testing.T) {
	c := Default()
	tests := []struct {
		name    string
		signals Signals
		want    Category
	}{
		{
			name:    "no genre data",
			signals: Signals{Developers: []string{"Ubisoft Montreal"}, RatingsCount: 9000},
			want:    Indie,
		},
		{
			name:    "horror genre",
			signals: Signals{Genres: []string{"Action", "Horror"}},
			want:    Horror,
		},
		{
			name:    "russian horror tag",
			signals: Signals{Genres: []string{"Экшен"}, Tags: []string{"Ужасы"}},
			want:    Horror,
		},
		{
			name:    "survival horror substring",
			signals: Signals{Genres: []string{"Adventure"}, Tags: []string{"Survival Horror"}},
			want:    Horror,
		},
		{
			name:    "visual novel exempt from horror",
			signals: Signals{Genres: []string{"Adventure"}, Tags: []string{"Horror", "Visual Novel"}, RatingsCount: 10},
			want:    Indie,
		},
		{
			name:    "interactive movie exempt from horror",
			signals: Signals{Genres: []string{"Horror"}, Tags: []string{"Interactive Movie"}, Publishers: []string{"Bandai Namco Entertainment"}},
			want:    AA,
		},
		{
			name:    "competitive tag",
			signals: Signals{Genres: []string{"Shooter"}, Tags: []string{"Battle Royale"}, Developers: []string{"Epic Games"}},
			want:    Competitive,
		},
		{
			name:    "competitive requires whole tag",
			signals: Signals{Genres: []string{"Shooter"}, Tags: []string{"Competitive-ish"}, RatingsCount: 20},
			want:    Indie,
		},
		{
			name:    "aaa developer",
			signals: Signals{Genres: []string{"RPG"}, Developers: []string{"CD PROJEKT RED"}},
			want:    AAA,
		},
		{
			name:    "developer match wins over publisher",
			signals: Signals{Genres: []string{"RPG"}, Developers: []string{"Techland"}, Publishers: []string{"Bethesda Softworks"}},
			want:    AA,
		},
		{
			name:    "publisher used when no developer matches",
			signals: Signals{Genres: []string{"Action"}, Developers: []string{"Tiny Studio"}, Publishers: []string{"Ubisoft"}},
			want:    AAA,
		},
		{
			name:    "popular without studio match",
			signals: Signals{Genres: []string{"Puzzle"}, Developers: []string{"Tiny Studio"}, RatingsCount: 5001},
			want:    AAA,
		},
		{
			name:    "metacritic aa",
			signals: Signals{Genres: []string{"Puzzle"}, Developers: []string{"Tiny Studio"}, Metacritic: 75},
			want:    AA,
		},
		{
			name:    "ratings boundary is exclusive",
			signals: Signals{Genres: []string{"Puzzle"}, Developers: []string{"Tiny Studio"}, RatingsCount: 1000},
			want:    Indie,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.signals); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublisherTierPrefersAAAOnOverlap(t *testing.T) {
	tables, err := keywords.Parse([]byte(`version: "overlap"
horror: [horror]
interactive: [visual novel]
competitive: [competitive]
publishers:
  aaa: [mega]
  aa: [mega games]
russian_regions: [russia]
boycotted_studios: [x]
boycott_warning: "w"
`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	tier, ok := New(tables).PublisherTier([]string{"Mega Games Ltd"}, nil)
	if !ok || tier != AAA {
		t.Fatalf("PublisherTier() = %q, %v; want aaa", tier, ok)
	}
}

func TestEveryStudioKeywordClassifies(t *testing.T) {
	c := Default()
	tables := c.Tables()
	for _, name := range tables.Publishers.AAA {
		if tier, ok := c.PublisherTier([]string{name}, nil); !ok || tier != AAA {
			t.Errorf("AAA keyword %q classified as %q", name, tier)
		}
	}
	for _, name := range tables.Publishers.AA {
		tier, ok := c.PublisherTier([]string{name}, nil)
		if !ok {
			t.Errorf("AA keyword %q did not match", name)
		}
		// Short AAA keywords such as "ea" appear inside some AA names.
		if tier != AA && tier != AAA {
			t.Errorf("AA keyword %q classified as %q", name, tier)
		}
	}
}

func TestEveryHorrorKeywordIsHorror(t *testing.T) {
	c := Default()
	for _, keyword := range c.Tables().Horror {
		if !c.IsHorror([]string{keyword}, nil) {
			t.Errorf("keyword %q not detected as horror", keyword)
		}
		for _, exempt := range c.Tables().Interactive {
			if c.IsHorror([]string{keyword}, []string{exempt}) {
				t.Errorf("keyword %q with exemption %q still horror", keyword, exempt)
			}
		}
	}
}

func TestSignalsFromGame(t *testing.T) {
	game := media.Game{Title: "x", Genres: []string{"Horror"}, Metacritic: 90, RatingsCount: 3}
	if got := Default().Classify(SignalsFromGame(game)); got != Horror {
		t.Fatalf("Classify() = %q, want horror", got)
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := map[Category]string{
		AAA:         "AAA",
		AA:          "AA",
		Indie:       "Indie",
		Competitive: "Competitive",
		Horror:      "Horror",
	}
	for category, want := range cases {
		if got := category.Label(); got != want {
			t.Errorf("%q.Label() = %q, want %q", category, got, want)
		}
	}
}
