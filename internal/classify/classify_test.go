package classify

import "testing"

func TestClassify_RoundPairingWithBroadcastURL(t *testing.T) {
	name, pairing := Classify(
		"Round 5: Smith, John - Doe, Jane",
		"https://lichess.org/broadcast/aeroflot-open-2025/round-5/abc123",
		"fallback",
	)
	if !pairing {
		t.Error("expected a round pairing")
	}
	if name != "Aeroflot Open 2025" {
		t.Errorf("tournament name = %q, want %q", name, "Aeroflot Open 2025")
	}
}

func TestClassify_RoundTripIsIdempotent(t *testing.T) {
	name, pairing := Classify(
		"Round 5: Smith, John - Doe, Jane",
		"https://lichess.org/broadcast/aeroflot-open-2025/round-5/abc123",
		"fallback",
	)
	if !pairing {
		t.Fatal("expected a round pairing")
	}

	// Reclassifying with the extracted name as the literal label must treat
	// it as an authoritative tournament name.
	name2, pairing2 := Classify(name, "", "fallback")
	if pairing2 {
		t.Error("extracted tournament name must not classify as a pairing")
	}
	if name2 != name {
		t.Errorf("name changed on reclassification: %q -> %q", name, name2)
	}
}

func TestIsPairing_Rules(t *testing.T) {
	pairings := []string{
		"Round 3: Adams, Michael - Short, Nigel",
		"Game 12: A, B - C, D",
		"Runde 2: Keymer, Vincent - Blübaum, Matthias",
		"Ronde 4: Firouzja, Alireza - Bacrot, Etienne",
		"Ronda 1: Vallejo, Paco - Shirov, Alexei",
		"Rodada 9: Leitão, Rafael - Mekhitarian, Krikor",
		"Quarter-Finals | Game 1",
		"Semi-Finals | Day 2",
		"Finals | Game 4",
		"3rd Place | Game 2",
		"Bronze Medal | Game 1",
		"Round of 16 | Game 3",
		"Speed Chess Tiebreak",
		"2° turno: Napoli - Milano",
		"Carlsen, Magnus - Caruana, Fabiano",
	}
	for _, label := range pairings {
		if _, ok := IsPairing(label); !ok {
			t.Errorf("expected pairing: %q", label)
		}
	}

	tournaments := []string{
		"Aeroflot Open 2025",
		"Tata Steel Masters",
		"FIDE Grand Prix Berlin",
		"Roundhouse Invitational", // starts with "Round" but not a round prefix
	}
	for _, label := range tournaments {
		if rule, ok := IsPairing(label); ok {
			t.Errorf("label %q wrongly matched rule %q", label, rule)
		}
	}
}

func TestClassify_VerbatimLabel(t *testing.T) {
	name, pairing := Classify("Tata Steel Masters 2025", "https://lichess.org/broadcast/x/y", "fb")
	if pairing {
		t.Error("non-pairing label must not be a pairing")
	}
	if name != "Tata Steel Masters 2025" {
		t.Errorf("label must be used verbatim, got %q", name)
	}
}

func TestClassify_EmptyLabelUsesFallback(t *testing.T) {
	name, pairing := Classify("", "", "titled_tuesday_march")
	if pairing {
		t.Error("empty label is not a pairing")
	}
	if name != "Titled Tuesday March" {
		t.Errorf("fallback name = %q, want %q", name, "Titled Tuesday March")
	}
}

func TestClassify_GenericURLSlug(t *testing.T) {
	name, pairing := Classify(
		"Round 1: A, B - C, D",
		"https://chess.example.com/spring-invitational-2024/round/1",
		"fb",
	)
	if !pairing {
		t.Fatal("expected a pairing")
	}
	if name != "Spring Invitational 2024" {
		t.Errorf("slug title = %q, want %q", name, "Spring Invitational 2024")
	}
}

func TestClassify_SkipsNonTournamentSegments(t *testing.T) {
	name, _ := Classify(
		"Round 1: A, B - C, D",
		"https://example.com/analysis/winter-marathon-open",
		"fb",
	)
	if name != "Winter Marathon Open" {
		t.Errorf("got %q, want %q", name, "Winter Marathon Open")
	}
}

func TestClassify_PairingWithoutURLFallsBack(t *testing.T) {
	name, pairing := Classify("Round 2: A, B - C, D", "", "club-championship")
	if !pairing {
		t.Fatal("expected a pairing")
	}
	if name != "Club Championship" {
		t.Errorf("got %q, want %q", name, "Club Championship")
	}
}

func TestTitleFromSlug(t *testing.T) {
	cases := []struct {
		slug, want string
	}{
		{"aeroflot-open-2025", "Aeroflot Open 2025"},
		{"fide-grand-prix", "FIDE Grand Prix"},
		{"us-championship", "US Championship"},
		{"tata-steel--masters-2025", "Tata Steel - Masters 2025"},
		{"nyc-blitz-cup", "NYC Blitz Cup"},
		{"gm-invitational", "GM Invitational"},
		{"world-cup-of-chess", "World Cup Of Chess"},
	}
	for _, c := range cases {
		if got := TitleFromSlug(c.slug); got != c.want {
			t.Errorf("TitleFromSlug(%q) = %q, want %q", c.slug, got, c.want)
		}
	}
}

func TestFormatName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"titled_tuesday", "Titled Tuesday"},
		{"open-2024", "Open 2024"},
		{"usa_vs_world", "USA VS World"},
		{"the_big_one", "The BIG ONE"},
	}
	for _, c := range cases {
		if got := FormatName(c.in); got != c.want {
			t.Errorf("FormatName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
