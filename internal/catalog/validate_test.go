package catalog

import (
	"errors"
	"testing"
)

func minimalDoc() *Document {
	return &Document{
		Meta: Meta{
			DisplayName: "Rate Watcher",
			Description: "Watch central bank rate decisions.",
		},
		Body: "## Procedure\n",
	}
}

func TestValidateDefaults(t *testing.T) {
	rec, diags, err := Validate("rate-watcher", "rate-watcher/SKILL.md", minimalDoc())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	if rec.ID != "rate-watcher" {
		t.Errorf("id = %q", rec.ID)
	}
	if rec.DataLevel != DataLevelFreeNoLimit {
		t.Errorf("dataLevel = %q, want %q", rec.DataLevel, DataLevelFreeNoLimit)
	}
	if rec.Featured {
		t.Error("featured should default to false")
	}
	if rec.InstallCount != 0 {
		t.Errorf("installCount = %d, want 0", rec.InstallCount)
	}
	if rec.Tags == nil || len(rec.Tags) != 0 {
		t.Errorf("tags should default to empty slice, got %v", rec.Tags)
	}
	if rec.Tools == nil || len(rec.Tools) != 0 {
		t.Errorf("tools should default to empty slice, got %v", rec.Tools)
	}
	if rec.Quality != nil {
		t.Errorf("quality should stay nil when absent, got %+v", rec.Quality)
	}
}

func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		meta  Meta
		field string
	}{
		{"no displayName", Meta{Description: "d"}, "displayName"},
		{"blank displayName", Meta{DisplayName: "   ", Description: "d"}, "displayName"},
		{"no description", Meta{DisplayName: "n"}, "description"},
		{"blank description", Meta{DisplayName: "n", Description: "\t\n"}, "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Validate("x", "x/SKILL.md", &Document{Meta: tc.meta})
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestBadgeForScore(t *testing.T) {
	cases := []struct {
		overall int
		want    string
	}{
		{0, BadgeEntry},
		{39, BadgeEntry},
		{40, BadgeMid},
		{59, BadgeMid},
		{60, BadgeUpperMid},
		{79, BadgeUpperMid},
		{80, BadgeHigh},
		{89, BadgeHigh},
		{90, BadgeTop},
		{100, BadgeTop},
	}
	for _, tc := range cases {
		if got := BadgeForScore(tc.overall); got != tc.want {
			t.Errorf("BadgeForScore(%d) = %q, want %q", tc.overall, got, tc.want)
		}
	}
	if BadgeForScore(89) == BadgeForScore(90) {
		t.Error("89 and 90 must map to different badges")
	}
}

func TestBadgeMonotonic(t *testing.T) {
	rank := map[string]int{
		BadgeEntry:    0,
		BadgeMid:      1,
		BadgeUpperMid: 2,
		BadgeHigh:     3,
		BadgeTop:      4,
	}
	prev := rank[BadgeForScore(0)]
	for overall := 1; overall <= 100; overall++ {
		cur := rank[BadgeForScore(overall)]
		if cur < prev {
			t.Fatalf("badge rank decreased at overall=%d", overall)
		}
		prev = cur
	}
}

func TestValidateQualityScore(t *testing.T) {
	doc := minimalDoc()
	doc.Meta.Quality = &QualityScore{Overall: 85, Metrics: map[string]int{"accuracy": 90}}
	rec, _, err := Validate("x", "x/SKILL.md", doc)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rec.Quality.Badge != BadgeHigh {
		t.Errorf("badge = %q, want %q", rec.Quality.Badge, BadgeHigh)
	}

	for _, overall := range []int{-1, 101} {
		doc := minimalDoc()
		doc.Meta.Quality = &QualityScore{Overall: overall}
		_, _, err := Validate("x", "x/SKILL.md", doc)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("overall=%d: expected *ValidationError, got %v", overall, err)
		}
	}

	doc = minimalDoc()
	doc.Meta.Quality = &QualityScore{Overall: 50, Metrics: map[string]int{"speed": 200}}
	if _, _, err := Validate("x", "x/SKILL.md", doc); err == nil {
		t.Error("out-of-range metric should fail validation")
	}
}

func TestValidateNegativeInstallCount(t *testing.T) {
	doc := minimalDoc()
	doc.Meta.InstallCount = -3
	_, _, err := Validate("x", "x/SKILL.md", doc)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "installCount" {
		t.Errorf("field = %q", ve.Field)
	}
}

func TestValidateUnknownCategory(t *testing.T) {
	doc := minimalDoc()
	doc.Meta.Category = "numismatics"
	rec, diags, err := Validate("x", "x/SKILL.md", doc)
	if err != nil {
		t.Fatalf("unknown category must not reject the record: %v", err)
	}
	if rec.Category != "numismatics" {
		t.Errorf("category = %q, literal value must be preserved", rec.Category)
	}
	if len(diags) != 1 || diags[0].Kind != DiagUnknownCategory {
		t.Fatalf("diags = %v, want one unknown-category diagnostic", diags)
	}

	doc = minimalDoc()
	doc.Meta.Category = "macro"
	_, diags, err = Validate("x", "x/SKILL.md", doc)
	if err != nil || len(diags) != 0 {
		t.Errorf("known category should produce no diagnostics, got %v / %v", diags, err)
	}
}

func TestIndexProjection(t *testing.T) {
	rec := SkillRecord{
		ID:           "x",
		DisplayName:  "X",
		Description:  "d",
		Tags:         []string{"a", "b", "c", "d", "e", "f", "g"},
		Category:     "macro",
		DataLevel:    DataLevelFreeNoLimit,
		InstallCount: 7,
		Quality:      &QualityScore{Overall: 95, Badge: BadgeTop},
		Content:      "full markdown body",
	}
	entry := toIndexEntry(rec)
	if len(entry.Tags) != 5 {
		t.Errorf("index tags = %v, want first 5", entry.Tags)
	}
	if entry.Tags[0] != "a" || entry.Tags[4] != "e" {
		t.Errorf("tag order not preserved: %v", entry.Tags)
	}
	if entry.Badge != BadgeTop {
		t.Errorf("badge = %q", entry.Badge)
	}

	// The projection must not alias the record's tag array.
	entry.Tags[0] = "mutated"
	if rec.Tags[0] != "a" {
		t.Error("index projection aliases the catalog record")
	}
}
