package taxonomy

import "testing"

func TestValidSessionType(t *testing.T) {
	for _, st := range SessionTypes {
		if !ValidSessionType(string(st)) {
			t.Errorf("ValidSessionType(%q) = false, want true", st)
		}
	}
	for _, bad := range []string{"", "Memorization", "review", "hifz"} {
		if ValidSessionType(bad) {
			t.Errorf("ValidSessionType(%q) = true, want false", bad)
		}
	}
}

func TestValidRecency(t *testing.T) {
	for _, r := range RecencyCategories {
		if !ValidRecency(string(r)) {
			t.Errorf("ValidRecency(%q) = false, want true", r)
		}
	}
	if ValidRecency("ancient") {
		t.Error("ValidRecency(\"ancient\") = true, want false")
	}
}

func TestValidSubcategory(t *testing.T) {
	tests := []struct {
		cat, sub string
		want     bool
	}{
		{"tajweed", "madd", true},
		{"tajweed", "forgotten_word", false},
		{"memorization", "forgotten_word", true},
		{"fluency", "hesitation", true},
		{"pronunciation", "makhraj", true},
		{"pronunciation", "madd", false},
		{"nonsense", "madd", false},
		{"tajweed", "", false},
	}
	for _, tt := range tests {
		if got := ValidSubcategory(tt.cat, tt.sub); got != tt.want {
			t.Errorf("ValidSubcategory(%q, %q) = %v, want %v", tt.cat, tt.sub, got, tt.want)
		}
	}
}

func TestSubcategoriesClosedPerCategory(t *testing.T) {
	for _, cat := range MistakeCategories {
		subs := Subcategories(cat)
		if len(subs) == 0 {
			t.Errorf("category %q has no subcategories", cat)
		}
		for _, sub := range subs {
			if !ValidSubcategory(string(cat), sub) {
				t.Errorf("subcategory %q not valid under its own category %q", sub, cat)
			}
		}
	}
	if Subcategories("nonsense") != nil {
		t.Error("Subcategories of unknown category should be nil")
	}
}

func TestValidSeverity(t *testing.T) {
	for n := SeverityMin; n <= SeverityMax; n++ {
		if !ValidSeverity(n) {
			t.Errorf("ValidSeverity(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, -1, 6, 100} {
		if ValidSeverity(n) {
			t.Errorf("ValidSeverity(%d) = true, want false", n)
		}
	}
}

func TestValidConfidence(t *testing.T) {
	for _, c := range []string{"high", "medium", "low"} {
		if !ValidConfidence(c) {
			t.Errorf("ValidConfidence(%q) = false, want true", c)
		}
	}
	if ValidConfidence("certain") {
		t.Error("ValidConfidence(\"certain\") = true, want false")
	}
}
