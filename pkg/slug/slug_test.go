package slug

import "testing"

func TestMakeTurkishSample(t *testing.T) {
	got := Make("Çay & Şeker Ürünü")
	if got != "cay-seker-urunu" {
		t.Fatalf("expected cay-seker-urunu, got %q", got)
	}
}

func TestMakeTurkishCasing(t *testing.T) {
	cases := map[string]string{
		"IĞDIR İLİ":            "igdir-ili",
		"  Kış Kampanyası  ":   "kis-kampanyasi",
		"Göz Kalemi (Siyah)":   "goz-kalemi-siyah",
		"100% Pamuk -- Tişört": "100-pamuk-tisort",
		"":                     "",
		"!!!":                  "",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Çay & Şeker Ürünü",
		"already-a-slug",
		"--Trailing--",
		"Ürün/Kategori_Adı",
		"İstanbul Özel Seri 2024",
		"Crème brûlée",
	}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Fatalf("Make not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
